package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/quangdm/votebook-dev/pkg/logging"
	"github.com/quangdm/votebook-dev/pkg/venuesim"
)

func main() {
	var (
		configFile = flag.String("config-file", "./config/fixacceptor.cfg", "FIX acceptor settings file")
		fillPrice  = flag.String("fill-price", "100.00", "price every order fills at")
	)
	flag.Parse()

	logger, err := logging.Init("info")
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // nolint
	log := logger.Sugar()

	price, err := decimal.NewFromString(*fillPrice)
	if err != nil {
		log.Fatalf("parse fill price %q: %v", *fillPrice, err)
	}

	srv := venuesim.NewServer(*configFile, price, log)
	if err := srv.Start(); err != nil {
		log.Fatalf("start venue: %v", err)
	}

	fmt.Println("Venue simulator started. Press Ctrl+C to exit.")
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	fmt.Println("Shutting down...")
	srv.Stop() // nolint
	fmt.Println("Exited cleanly.")
}
