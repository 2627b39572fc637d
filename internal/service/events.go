package service

import (
	"log"

	"github.com/unclebandit/customer-records/internal/queue"
)

// EventPublisher announces committed changes. Delivery failures are logged
// and never turn a successful write into an error.
type EventPublisher struct {
	Queue queue.Queue
	Topic string
}

func (p *EventPublisher) publish(ev queue.Event) {
	if p == nil || p.Queue == nil {
		return
	}
	if err := p.Queue.Publish(p.Topic, ev); err != nil {
		log.Printf("⚠️ failed to publish %s for %s %d: %v", ev.Type, ev.Entity, ev.EntityID, err)
	}
}
