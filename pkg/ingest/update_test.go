package ingest

import (
	"errors"
	"testing"
)

func TestParseUpdateValid(t *testing.T) {
	data := []byte(`{"OrderID":"O1","Symbol":"AAPL","Side":"B","Price":"100.50","Quantity":"25","Action":"A","Exchange":"NYSE"}`)
	u, err := ParseUpdate(data)
	if err != nil {
		t.Fatalf("ParseUpdate: %v", err)
	}
	if u.OrderID != "O1" || u.Symbol != "AAPL" || u.Side != "B" {
		t.Errorf("unexpected update: %+v", u)
	}
	if u.Exchange != "NYSE" {
		t.Errorf("exchange = %q, want NYSE", u.Exchange)
	}

	o, err := u.Order()
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	if o.Price.String() != "100.5" || o.Quantity.String() != "25" {
		t.Errorf("order price/qty = %s/%s", o.Price, o.Quantity)
	}
}

func TestParseUpdateLowercaseKeys(t *testing.T) {
	data := []byte(`{"orderid":"O2","symbol":"MSFT","side":"S","price":305.1,"quantity":10,"action":"A"}`)
	u, err := ParseUpdate(data)
	if err != nil {
		t.Fatalf("ParseUpdate: %v", err)
	}
	if u.OrderID != "O2" || u.Symbol != "MSFT" {
		t.Errorf("unexpected update: %+v", u)
	}
	if u.Price != "305.1" || u.Quantity != "10" {
		t.Errorf("numeric fields not normalized: price=%q qty=%q", u.Price, u.Quantity)
	}
}

func TestParseUpdateDefaultsExchange(t *testing.T) {
	data := []byte(`{"OrderID":"O3","Symbol":"AAPL","Side":"B","Price":"99.00","Quantity":"5","Action":"A"}`)
	u, err := ParseUpdate(data)
	if err != nil {
		t.Fatalf("ParseUpdate: %v", err)
	}
	if u.Exchange != "UNKNOWN" {
		t.Errorf("exchange = %q, want UNKNOWN", u.Exchange)
	}
}

func TestParseUpdateMissingPrice(t *testing.T) {
	data := []byte(`{"OrderID":"O4","Symbol":"AAPL","Side":"B","Quantity":"5","Action":"A"}`)
	if _, err := ParseUpdate(data); !errors.Is(err, ErrMissingPrice) {
		t.Errorf("err = %v, want ErrMissingPrice", err)
	}

	data = []byte(`{"OrderID":"O4","Symbol":"AAPL","Side":"B","Price":"abc","Quantity":"5","Action":"M"}`)
	if _, err := ParseUpdate(data); !errors.Is(err, ErrMissingPrice) {
		t.Errorf("err = %v, want ErrMissingPrice for garbage price", err)
	}
}

func TestParseUpdateCancelWithoutPrice(t *testing.T) {
	data := []byte(`{"OrderID":"O5","Symbol":"AAPL","Action":"C"}`)
	u, err := ParseUpdate(data)
	if err != nil {
		t.Fatalf("cancel without price should parse, got %v", err)
	}
	if u.Action != ActionCancel {
		t.Errorf("action = %q", u.Action)
	}
}

func TestParseUpdateUnknownAction(t *testing.T) {
	data := []byte(`{"OrderID":"O6","Symbol":"AAPL","Side":"B","Price":"10","Quantity":"1","Action":"X"}`)
	if _, err := ParseUpdate(data); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("err = %v, want ErrUnknownAction", err)
	}
}

func TestParseUpdateMissingIdentity(t *testing.T) {
	for _, data := range []string{
		`{"Symbol":"AAPL","Side":"B","Price":"10","Quantity":"1","Action":"A"}`,
		`{"OrderID":"O7","Side":"B","Price":"10","Quantity":"1","Action":"A"}`,
	} {
		if _, err := ParseUpdate([]byte(data)); !errors.Is(err, ErrMissingField) {
			t.Errorf("err = %v for %s, want ErrMissingField", err, data)
		}
	}
}

func TestParseUpdateMalformedJSON(t *testing.T) {
	if _, err := ParseUpdate([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed json")
	}
}

func TestNewsCode(t *testing.T) {
	u := &Update{News: "100"}
	if got := u.NewsCode(); got != 100 {
		t.Errorf("NewsCode = %d, want 100", got)
	}
	u = &Update{News: "bad"}
	if got := u.NewsCode(); got != 0 {
		t.Errorf("NewsCode = %d, want 0 for unparseable", got)
	}
	u = &Update{}
	if got := u.NewsCode(); got != 0 {
		t.Errorf("NewsCode = %d, want 0 for absent", got)
	}
}
