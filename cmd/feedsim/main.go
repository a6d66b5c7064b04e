// feedsim generates a synthetic market update stream for local runs. It
// serves newline-delimited JSON to every TCP client, or publishes to Kafka
// with -kafka.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/quangdm/votebook-dev/pkg/ingest"
	"github.com/quangdm/votebook-dev/pkg/kafkautil"
)

const (
	minPrice = 100.0
	maxPrice = 110.0
	minQty   = 1
	maxQty   = 100
)

var (
	symbols      = []string{"AAPL", "MSFT", "GOOG"}
	exchanges    = []string{"NYSE", "NASDAQ"}
	descriptions = []string{
		"",
		"record quarter, strong growth",
		"analyst downgrade after weak guidance",
		"earnings beat expectations",
		"revenue miss, shares drop",
	}
	newsCodes = []string{"", "50", "100"}
)

func randomUpdate(id int, live []string) (*ingest.Update, []string) {
	action := ingest.ActionAdd
	orderID := fmt.Sprintf("ORD-%06d", id)

	// occasionally amend or cancel an order that is still on the book
	if len(live) > 0 {
		switch r := rand.Intn(10); {
		case r < 2:
			action = ingest.ActionCancel
			orderID = live[rand.Intn(len(live))]
		case r < 4:
			action = ingest.ActionAmend
			orderID = live[rand.Intn(len(live))]
		}
	}

	side := "B"
	if rand.Intn(2) == 0 {
		side = "S"
	}
	price := minPrice + rand.Float64()*(maxPrice-minPrice)
	qty := rand.Intn(maxQty-minQty+1) + minQty

	u := &ingest.Update{
		OrderID:     orderID,
		Symbol:      symbols[rand.Intn(len(symbols))],
		Side:        side,
		Price:       fmt.Sprintf("%.2f", price),
		Quantity:    fmt.Sprintf("%d", qty),
		Action:      action,
		Exchange:    exchanges[rand.Intn(len(exchanges))],
		Description: descriptions[rand.Intn(len(descriptions))],
		News:        newsCodes[rand.Intn(len(newsCodes))],
	}
	if action == ingest.ActionCancel {
		u.Price = ""
		u.Quantity = ""
	} else {
		live = append(live, orderID)
	}
	return u, live
}

func serveTCP(addr string, interval time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("feedsim listening on %s", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go func(conn net.Conn) {
			defer conn.Close() // nolint
			log.Printf("client connected: %s", conn.RemoteAddr())
			enc := json.NewEncoder(conn)
			var live []string
			for i := 0; ; i++ {
				var u *ingest.Update
				u, live = randomUpdate(i, live)
				if err := enc.Encode(u); err != nil {
					log.Printf("client gone: %v", err)
					return
				}
				time.Sleep(interval)
			}
		}(conn)
	}
}

func publishKafka(ctx context.Context, brokers []string, topic string, interval time.Duration) error {
	producer := kafkautil.NewProducer(kafkautil.ProducerConfig{Brokers: brokers})
	defer producer.Close() // nolint
	log.Printf("feedsim publishing to kafka topic %s", topic)

	var live []string
	for i := 0; ; i++ {
		var u *ingest.Update
		u, live = randomUpdate(i, live)
		if err := producer.PublishJSON(ctx, topic, u.Symbol, u); err != nil {
			return err
		}
		time.Sleep(interval)
	}
}

func main() {
	var (
		addr     = flag.String("addr", "127.0.0.1:9995", "TCP listen address")
		kafka    = flag.Bool("kafka", false, "publish to kafka instead of serving TCP")
		brokers  = flag.String("brokers", "localhost:9092", "comma-separated kafka brokers")
		topic    = flag.String("topic", "market.updates", "kafka topic")
		interval = flag.Duration("interval", 50*time.Millisecond, "delay between updates")
	)
	flag.Parse()

	rand.Seed(time.Now().UnixNano())

	var err error
	if *kafka {
		err = publishKafka(context.Background(), strings.Split(*brokers, ","), *topic, *interval)
	} else {
		err = serveTCP(*addr, *interval)
	}
	if err != nil {
		log.Fatal(err)
	}
}
