package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/quangdm/votebook-dev/config"
	"github.com/quangdm/votebook-dev/pkg/events"
	postgres_wrapper "github.com/quangdm/votebook-dev/pkg/infra/postgres"
	"github.com/quangdm/votebook-dev/pkg/logging"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	logger, err := logging.Init(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // nolint
	log := logger.Sugar()

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	nc, err := nats.Connect(cfg.Nats.URL)
	if err != nil {
		log.Fatalf("connect nats: %v", err)
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		log.Fatalf("jetstream: %v", err)
	}
	if _, err := js.AddStream(&nats.StreamConfig{
		Name:     events.StreamName,
		Subjects: []string{events.StreamName + ".*"},
	}); err != nil && err != nats.ErrStreamNameAlreadyInUse {
		log.Warnf("ensure stream: %v", err)
	}

	db, err := postgres_wrapper.InitPostgresWithBackoff(cfg.TradeDB)
	if err != nil {
		log.Fatalf("init db: %v", err)
	}

	repo := events.NewEventSQLRepo(db)
	w := events.NewWorker(repo, log)

	durable := cfg.Nats.Durable
	if durable == "" {
		durable = "decision-audit"
	}
	if err := w.Run(ctx, js, events.SubjectEvents, durable); err != nil {
		log.Fatalf("worker stopped: %v", err)
	}
}
