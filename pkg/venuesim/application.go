package venuesim

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Application accepts NewOrderSingle messages and immediately reports a full
// fill. It is a test venue, not a matching engine: every order fills at the
// configured reference price.
type Application struct {
	*quickfix.MessageRouter
	log       *zap.SugaredLogger
	fillPrice decimal.Decimal
	quit      chan bool
}

func newApplication(fillPrice decimal.Decimal, log *zap.SugaredLogger) *Application {
	app := &Application{
		MessageRouter: quickfix.NewMessageRouter(),
		log:           log,
		fillPrice:     fillPrice,
		quit:          make(chan bool, 1),
	}
	app.AddRoute(newordersingle.Route(app.onNewOrderSingle))
	return app
}

func startApp(configFilepath string, fillPrice decimal.Decimal, log *zap.SugaredLogger) (*Application, error) {
	raw, err := os.ReadFile(configFilepath)
	if err != nil {
		return nil, fmt.Errorf("error opening %v, %v", configFilepath, err)
	}

	appSettings, err := quickfix.ParseSettings(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("error reading cfg: %s,", err)
	}

	app := newApplication(fillPrice, log)
	logFactory, _ := quickfix.NewFileLogFactory(appSettings)
	acceptor, err := quickfix.NewAcceptor(app, quickfix.NewMemoryStoreFactory(), appSettings, logFactory)
	if err != nil {
		return nil, fmt.Errorf("unable to create acceptor: %s", err)
	}

	if err := acceptor.Start(); err != nil {
		return nil, fmt.Errorf("unable to start FIX acceptor: %s", err)
	}

	go func() {
		<-app.quit
		acceptor.Stop()
	}()

	return app, nil
}

func stopApp(a *Application) {
	select {
	case a.quit <- true:
	default:
	}
}

func (a *Application) onNewOrderSingle(msg newordersingle.NewOrderSingle, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	clOrdID, err := msg.GetClOrdID()
	if err != nil {
		return err
	}
	side, err := msg.GetSide()
	if err != nil {
		return err
	}
	symbol, err := msg.GetSymbol()
	if err != nil {
		return err
	}
	qty, err := msg.GetOrderQty()
	if err != nil {
		return err
	}

	report := executionreport.New(
		field.NewOrderID(uuid.New().String()),
		field.NewExecID(uuid.New().String()),
		field.NewExecType(enum.ExecType_TRADE),
		field.NewOrdStatus(enum.OrdStatus_FILLED),
		field.NewSide(side),
		field.NewLeavesQty(decimal.Zero, 0),
		field.NewCumQty(qty, 0),
		field.NewAvgPx(a.fillPrice, 2),
	)
	report.SetClOrdID(clOrdID)
	report.SetSymbol(symbol)
	report.SetOrderQty(qty, 0)

	if sendErr := quickfix.SendToTarget(report, sessionID); sendErr != nil {
		a.log.Errorw("send execution report", "cl_ord_id", clOrdID, "err", sendErr)
		return nil
	}

	a.log.Infow("order filled",
		"cl_ord_id", clOrdID,
		"symbol", symbol,
		"side", side,
		"qty", qty.String(),
		"fill_price", a.fillPrice.String(),
	)
	return nil
}

// OnCreate implemented as part of Application interface
func (a *Application) OnCreate(sessionID quickfix.SessionID) {}

// OnLogon implemented as part of Application interface
func (a *Application) OnLogon(sessionID quickfix.SessionID) {
	a.log.Infow("counterparty logged on", "session", sessionID.String())
}

// OnLogout implemented as part of Application interface
func (a *Application) OnLogout(sessionID quickfix.SessionID) {}

// ToAdmin implemented as part of Application interface
func (a *Application) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}

// ToApp implemented as part of Application interface
func (a *Application) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}

// FromAdmin implemented as part of Application interface
func (a *Application) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

// FromApp implemented as part of Application interface, uses Router on incoming application messages
func (a *Application) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return a.Route(msg, sessionID)
}
