// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unclebandit/customer-records/internal/config"
	"github.com/unclebandit/customer-records/internal/controller"
	"github.com/unclebandit/customer-records/internal/db"
	"github.com/unclebandit/customer-records/internal/handler"
	"github.com/unclebandit/customer-records/internal/queue"
	"github.com/unclebandit/customer-records/internal/repository"
	"github.com/unclebandit/customer-records/internal/service"
	"github.com/unclebandit/customer-records/internal/telemetry"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup("customer-records", cfg.TraceStdout)
	if err != nil {
		log.Fatal("Failed to set up tracing:", err)
	}

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := db.EnsureSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

	customerRepo := &repository.CustomerRepository{DB: conn}
	addressRepo := &repository.AddressRepository{DB: conn}

	q, closeQueue := openQueue(ctx, cfg, customerRepo, addressRepo)
	defer closeQueue()

	events := &service.EventPublisher{Queue: q, Topic: cfg.EventsQueue}

	customerController := &controller.CustomerController{
		CustomerService: &service.CustomerService{CustomerRepo: customerRepo, Events: events},
	}
	addressController := &controller.AddressController{
		AddressService: &service.AddressService{AddressRepo: addressRepo, Events: events},
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler.NewRouter(customerController, addressController, conn, cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server running on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("⚠️ Server shutdown:", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Println("⚠️ Tracing shutdown:", err)
	}
}

// openQueue publishes to RabbitMQ when AMQP_URL is set, leaving auditing to
// cmd/worker. Otherwise events go to an in-process queue audited here.
func openQueue(ctx context.Context, cfg *config.Config, customers repository.CustomerRepositoryInterface, addresses repository.AddressRepositoryInterface) (queue.Queue, func()) {
	if cfg.AMQPURL != "" {
		q, err := queue.DialAMQP(cfg.AMQPURL)
		if err == nil {
			log.Println("📨 Publishing record events to", cfg.EventsQueue)
			return q, func() { _ = q.Close() }
		}
		log.Println("⚠️ Falling back to in-memory events:", err)
	}

	q := queue.NewInMemoryQueue()
	worker := service.NewEventWorker(customers, addresses)
	if err := queue.StartEventSubscriber(q, cfg.EventsQueue, worker.Subscriber(ctx)); err != nil {
		log.Println("⚠️ Failed to start event subscriber:", err)
	}

	return q, func() {}
}
