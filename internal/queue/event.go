package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types published after a record changes.
const (
	CustomerCreated = "customer.created"
	CustomerUpdated = "customer.updated"
	CustomerDeleted = "customer.deleted"
	AddressCreated  = "address.created"
	AddressUpdated  = "address.updated"
	AddressDeleted  = "address.deleted"
)

// Event describes one committed change to a customer or address.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	Entity     string    `json:"entity"`
	EntityID   int       `json:"entity_id"`
	CustomerID int       `json:"customer_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(eventType, entity string, entityID, customerID int) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		Entity:     entity,
		EntityID:   entityID,
		CustomerID: customerID,
		OccurredAt: time.Now().UTC(),
	}
}

// DecodeEvent accepts the payload shapes the queues hand to subscribers:
// an Event from the in-memory queue or a JSON body from AMQP.
func DecodeEvent(payload any) (Event, error) {
	switch p := payload.(type) {
	case Event:
		return p, nil
	case *Event:
		if p == nil {
			return Event{}, fmt.Errorf("nil event")
		}
		return *p, nil
	case []byte:
		var ev Event
		if err := json.Unmarshal(p, &ev); err != nil {
			return Event{}, fmt.Errorf("invalid event body: %w", err)
		}
		return ev, nil
	default:
		return Event{}, fmt.Errorf("unexpected payload type %T", payload)
	}
}
