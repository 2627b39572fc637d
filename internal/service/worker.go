package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	appErrors "github.com/unclebandit/customer-records/internal/errors"
	"github.com/unclebandit/customer-records/internal/queue"
	"github.com/unclebandit/customer-records/internal/repository"
)

// EventWorker turns record-change events into audit log lines, reading the
// current state of the record from the database.
type EventWorker struct {
	CustomerRepo repository.CustomerRepositoryInterface
	AddressRepo  repository.AddressRepositoryInterface
	Logger       *log.Logger
}

// Constructor
func NewEventWorker(customers repository.CustomerRepositoryInterface, addresses repository.AddressRepositoryInterface) *EventWorker {
	return &EventWorker{
		CustomerRepo: customers,
		AddressRepo:  addresses,
		Logger:       log.Default(),
	}
}

// Subscriber returns a queue handler that audits each event synchronously,
// so a failed audit reaches the queue before the delivery is settled.
func (w *EventWorker) Subscriber(ctx context.Context) func(queue.Event) error {
	return func(ev queue.Event) error {
		if _, err := w.Handle(ctx, ev); err != nil {
			w.Logger.Println("Failed to audit event:", err)
			return err
		}
		return nil
	}
}

// Handle writes one audit line for ev and returns it. Storage failures are
// returned so the caller's queue can redeliver.
func (w *EventWorker) Handle(ctx context.Context, ev queue.Event) (string, error) {
	line, err := w.describe(ctx, ev)
	if err != nil {
		return "", err
	}
	w.Logger.Printf("audit %s %s", ev.ID, line)
	return line, nil
}

func (w *EventWorker) describe(ctx context.Context, ev queue.Event) (string, error) {
	switch ev.Type {
	case queue.CustomerCreated, queue.CustomerUpdated:
		c, err := w.CustomerRepo.GetByID(ctx, ev.EntityID)
		if gone(err) {
			return fmt.Sprintf("%s customer=%d gone", ev.Type, ev.EntityID), nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s customer=%d name=%q phone=%s", ev.Type, c.ID, c.FirstName+" "+c.LastName, c.PhoneNumber), nil

	case queue.CustomerDeleted:
		remaining, err := w.AddressRepo.ListByCustomer(ctx, ev.EntityID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s customer=%d remaining_addresses=%d", ev.Type, ev.EntityID, len(remaining)), nil

	case queue.AddressCreated, queue.AddressUpdated:
		a, err := w.AddressRepo.GetByID(ctx, ev.EntityID)
		if gone(err) {
			return fmt.Sprintf("%s address=%d gone", ev.Type, ev.EntityID), nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s address=%d customer=%d city=%s pin=%s", ev.Type, a.ID, a.CustomerID, a.City, a.PinCode), nil

	case queue.AddressDeleted:
		return fmt.Sprintf("%s address=%d customer=%d", ev.Type, ev.EntityID, ev.CustomerID), nil
	}

	return fmt.Sprintf("ignored type=%q", ev.Type), nil
}

func gone(err error) bool {
	var nf *appErrors.NotFoundError
	return errors.As(err, &nf)
}
