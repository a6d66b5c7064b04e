// Package ingest decodes market updates off the wire and rejects malformed
// records before they can reach the book.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/quangdm/votebook-dev/pkg/book"
)

const (
	ActionAdd    = "A"
	ActionAmend  = "M"
	ActionCancel = "C"
)

const defaultExchange = "UNKNOWN"

var (
	ErrMissingPrice  = errors.New("missing or invalid price")
	ErrUnknownAction = errors.New("unknown action")
	ErrMissingField  = errors.New("missing required field")
)

// Update is one decoded market update. Price and Quantity stay strings here;
// they are parsed into decimals only when the record is handed to the book.
type Update struct {
	OrderID     string `json:"OrderID"`
	Symbol      string `json:"Symbol"`
	Side        string `json:"Side"`
	Price       string `json:"Price"`
	Quantity    string `json:"Quantity"`
	Action      string `json:"Action"`
	Exchange    string `json:"Exchange,omitempty"`
	Description string `json:"Description,omitempty"`
	News        string `json:"News,omitempty"`
}

// ParseUpdate decodes and validates a single JSON record. Some venues send
// lowercase keys, so unknown casing is normalized before validation.
func ParseUpdate(data []byte) (*Update, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode update: %w", err)
	}

	u := &Update{
		OrderID:     pickString(raw, "OrderID", "orderid", "order_id"),
		Symbol:      pickString(raw, "Symbol", "symbol"),
		Side:        pickString(raw, "Side", "side"),
		Price:       pickString(raw, "Price", "price"),
		Quantity:    pickString(raw, "Quantity", "quantity"),
		Action:      pickString(raw, "Action", "action"),
		Exchange:    pickString(raw, "Exchange", "exchange"),
		Description: pickString(raw, "Description", "description"),
		News:        pickString(raw, "News", "news"),
	}
	if u.Exchange == "" {
		u.Exchange = defaultExchange
	}

	if err := u.validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *Update) validate() error {
	if u.OrderID == "" {
		return fmt.Errorf("%w: OrderID", ErrMissingField)
	}
	if u.Symbol == "" {
		return fmt.Errorf("%w: Symbol", ErrMissingField)
	}

	switch u.Action {
	case ActionCancel:
		return nil
	case ActionAdd, ActionAmend:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, u.Action)
	}

	if u.Price == "" {
		return ErrMissingPrice
	}
	if _, err := decimal.NewFromString(u.Price); err != nil {
		return fmt.Errorf("%w: %q", ErrMissingPrice, u.Price)
	}
	return nil
}

// Order converts the update into a book order. Only valid for add and amend
// actions; validate has already guaranteed a parseable price.
func (u *Update) Order() (book.Order, error) {
	price, err := decimal.NewFromString(u.Price)
	if err != nil {
		return book.Order{}, fmt.Errorf("%w: %q", ErrMissingPrice, u.Price)
	}
	qty := decimal.Zero
	if u.Quantity != "" {
		qty, err = decimal.NewFromString(u.Quantity)
		if err != nil {
			return book.Order{}, fmt.Errorf("parse quantity %q: %w", u.Quantity, err)
		}
	}

	return book.Order{
		ID:       u.OrderID,
		Symbol:   u.Symbol,
		Side:     book.Side(u.Side),
		Price:    price,
		Quantity: qty,
		Exchange: u.Exchange,
	}, nil
}

// NewsCode returns the auxiliary news code, 0 when absent or unparseable.
func (u *Update) NewsCode() int {
	if u.News == "" {
		return 0
	}
	n, err := strconv.Atoi(u.News)
	if err != nil {
		return 0
	}
	return n
}

func pickString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			switch t := v.(type) {
			case string:
				return t
			case float64:
				return strconv.FormatFloat(t, 'f', -1, 64)
			}
		}
	}
	return ""
}
