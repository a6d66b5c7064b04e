package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	ossignal "os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/quangdm/votebook-dev/config"
	"github.com/quangdm/votebook-dev/pkg/book"
	"github.com/quangdm/votebook-dev/pkg/engine"
	"github.com/quangdm/votebook-dev/pkg/events"
	"github.com/quangdm/votebook-dev/pkg/exec"
	fixgateway "github.com/quangdm/votebook-dev/pkg/exec/fix"
	redis_wrapper "github.com/quangdm/votebook-dev/pkg/infra/redis"
	"github.com/quangdm/votebook-dev/pkg/ingest"
	"github.com/quangdm/votebook-dev/pkg/logging"
	"github.com/quangdm/votebook-dev/pkg/signal"
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

	go func() {
		http.ListenAndServe("localhost:6060", nil) // nolint
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	ossignal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// decision audit trail
	var sinks []events.Sink
	if cfg.Nats != nil && cfg.Nats.URL != "" {
		natsSink, err := events.NewNatsSink(cfg.Nats)
		if err != nil {
			log.Fatalf("init nats sink: %v", err)
		}
		defer natsSink.Close()
		sinks = append(sinks, natsSink)
	}
	if cfg.Redis != nil && cfg.Redis.ConnectionURL != "" {
		redisClient, err := redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			log.Fatalf("init redis: %v", err)
		}
		defer redisClient.Close() // nolint
		sinks = append(sinks, events.NewRedisSink(redisClient, cfg.Redis.Channel))
	}
	reporter := events.NewReporter(log, sinks...)

	// execution gateway
	var gateway engine.ExecutionGateway
	switch cfg.Exec.Gateway {
	case "fix":
		gateway = fixgateway.NewGateway(cfg.Exec.Fix, log)
	case "tcp":
		gateway = exec.NewTCPGateway(cfg.Exec.TCP, log)
	default:
		log.Fatalf("unknown exec gateway %q", cfg.Exec.Gateway)
	}
	if err := gateway.Start(ctx); err != nil {
		log.Fatalf("start exec gateway: %v", err)
	}

	// pipeline
	b := book.New()
	eng := engine.NewEngine(b, log)
	gate := engine.NewGate(gateway, reporter, log)
	meanRev := signal.NewMeanReversion(cfg.MeanRevWindow)
	proc := engine.NewProcessor(b, signal.LexiconSentiment{}, meanRev, eng, gate)

	// market data feed
	handler := func(ctx context.Context, u *ingest.Update) {
		proc.OnUpdate(ctx, u)
	}

	errCh := make(chan error, 1)
	switch cfg.Feed.Source {
	case "kafka":
		src := ingest.NewKafkaSource(cfg.Feed.Kafka, handler, log)
		go func() { errCh <- src.Run(ctx) }()
	case "tcp":
		src := ingest.NewTCPSource(cfg.Feed.TCP, handler, log)
		go func() { errCh <- src.Run(ctx) }()
	default:
		log.Fatalf("unknown feed source %q", cfg.Feed.Source)
	}

	fmt.Println("Trader started. Press Ctrl+C to exit.")

	select {
	case <-sigs:
		fmt.Println("Shutting down...")
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Errorf("feed stopped: %v", err)
		}
		cancel()
	}

	fmt.Println("Exited cleanly.")
}
