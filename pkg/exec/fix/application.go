package fixgateway

import (
	"sync"

	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/tag"
	"go.uber.org/zap"
)

// Application handles FIX session callbacks for the initiator and routes
// inbound execution reports. The core does not interpret acknowledgements
// beyond logging them.
type Application struct {
	*quickfix.MessageRouter
	log *zap.SugaredLogger

	mu        sync.Mutex
	sessionID *quickfix.SessionID
}

func newApplication(log *zap.SugaredLogger) *Application {
	app := &Application{
		MessageRouter: quickfix.NewMessageRouter(),
		log:           log,
	}
	app.AddRoute(executionreport.Route(app.onExecutionReport))
	return app
}

func (a *Application) session() *quickfix.SessionID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionID
}

func (a *Application) OnCreate(sessionID quickfix.SessionID) {}

func (a *Application) OnLogon(sessionID quickfix.SessionID) {
	a.mu.Lock()
	a.sessionID = &sessionID
	a.mu.Unlock()
	a.log.Infow("fix session logged on", "session", sessionID.String())
}

func (a *Application) OnLogout(sessionID quickfix.SessionID) {
	a.mu.Lock()
	if a.sessionID != nil && *a.sessionID == sessionID {
		a.sessionID = nil
	}
	a.mu.Unlock()
	a.log.Warnw("fix session logged out", "session", sessionID.String())
}

func (a *Application) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}

func (a *Application) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

func (a *Application) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}

func (a *Application) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	if err := a.Route(msg, sessionID); err != nil {
		msgType, _ := msg.Header.GetString(tag.MsgType)
		a.log.Debugw("unrouted fix message", "msg_type", msgType)
		return err
	}
	return nil
}

func (a *Application) onExecutionReport(msg executionreport.ExecutionReport, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	clOrdID, _ := msg.GetClOrdID()
	ordStatus, _ := msg.GetOrdStatus()
	execType, _ := msg.GetExecType()

	a.log.Infow("execution report received",
		"cl_ord_id", clOrdID,
		"ord_status", string(ordStatus),
		"exec_type", string(execType),
	)
	return nil
}
