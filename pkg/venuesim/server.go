// Package venuesim is a FIX 4.4 acceptor that fills every incoming order,
// standing in for the execution venue during local runs.
package venuesim

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Server struct {
	app            *Application
	configFilepath string
	fillPrice      decimal.Decimal
	log            *zap.SugaredLogger
}

func NewServer(configFilepath string, fillPrice decimal.Decimal, log *zap.SugaredLogger) *Server {
	return &Server{
		configFilepath: configFilepath,
		fillPrice:      fillPrice,
		log:            log,
	}
}

func (s *Server) Start() error {
	app, err := startApp(s.configFilepath, s.fillPrice, s.log)
	if err != nil {
		s.log.Errorw("start acceptor", "err", err)
		return err
	}
	s.app = app
	return nil
}

func (s *Server) Stop() error {
	if s.app != nil {
		stopApp(s.app)
	}
	return nil
}
