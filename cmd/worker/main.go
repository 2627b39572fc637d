package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/unclebandit/customer-records/internal/config"
	"github.com/unclebandit/customer-records/internal/db"
	"github.com/unclebandit/customer-records/internal/queue"
	"github.com/unclebandit/customer-records/internal/repository"
	"github.com/unclebandit/customer-records/internal/service"
)

func main() {
	cfg := config.Load()
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required for the audit worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	q, err := queue.DialAMQP(cfg.AMQPURL)
	if err != nil {
		log.Fatal(err)
	}
	defer q.Close()

	worker := service.NewEventWorker(
		&repository.CustomerRepository{DB: conn},
		&repository.AddressRepository{DB: conn},
	)

	if err := q.Subscribe(cfg.EventsQueue, auditHandler(ctx, worker)); err != nil {
		log.Fatal(err)
	}

	log.Println("Worker running, waiting for events on", cfg.EventsQueue)
	select {
	case amqpErr := <-q.NotifyClose():
		log.Println("Queue connection closed:", amqpErr)
	case <-ctx.Done():
	}
}

// auditHandler audits each delivery before the queue settles it, so a
// storage failure nacks the message instead of losing it.
func auditHandler(ctx context.Context, worker *service.EventWorker) func(payload any) error {
	return queue.EventHandler(worker.Subscriber(ctx))
}
