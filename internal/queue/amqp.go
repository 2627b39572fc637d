package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/streadway/amqp"
)

// ErrQueueClosed is returned by Publish once the broker connection is gone.
var ErrQueueClosed = errors.New("queue connection closed")

// AMQPQueue publishes and consumes JSON messages on durable RabbitMQ queues.
// Topics map one to one onto queue names.
//
// There is no reconnect: once the connection drops, Publish fails fast with
// ErrQueueClosed. Events are best-effort, so publishers log and carry on;
// consumers should watch NotifyClose and exit.
type AMQPQueue struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed atomic.Bool

	// channels are not safe for concurrent publishing
	mu       sync.Mutex
	declared map[string]bool
}

func DialAMQP(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to queue: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open queue channel: %w", err)
	}

	q := &AMQPQueue{conn: conn, ch: ch, declared: map[string]bool{}}

	lost := conn.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if err := <-lost; err != nil {
			log.Println("⚠️ Queue connection lost:", err)
		}
		q.closed.Store(true)
	}()

	return q, nil
}

func (q *AMQPQueue) declare(topic string) error {
	if q.declared[topic] {
		return nil
	}
	_, err := q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", topic, err)
	}
	q.declared[topic] = true
	return nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	if q.closed.Load() {
		return ErrQueueClosed
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.declare(topic); err != nil {
		return err
	}

	return q.ch.Publish(
		"",
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Subscribe consumes topic with manual acks. The handler receives the raw
// JSON body; a handler error requeues the delivery once, then drops it.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	err := q.declare(topic)
	var msgs <-chan amqp.Delivery
	if err == nil {
		msgs, err = q.ch.Consume(
			topic,
			"",
			false, // autoAck = false for reliability
			false,
			false,
			false,
			nil,
		)
	}
	q.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			HandleDelivery(d, handler)
		}
	}()

	return nil
}

// HandleDelivery runs handler on the body and settles the delivery only
// afterwards: Ack on success, otherwise Nack with one requeue.
func HandleDelivery(d amqp.Delivery, handler func(payload any) error) {
	if err := handler(d.Body); err != nil {
		log.Println("⚠️ Failed to handle message:", err)
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}

// NotifyClose exposes connection loss so long-running consumers can exit.
func (q *AMQPQueue) NotifyClose() <-chan *amqp.Error {
	return q.conn.NotifyClose(make(chan *amqp.Error, 1))
}

func (q *AMQPQueue) Close() error {
	q.closed.Store(true)
	if err := q.ch.Close(); err != nil {
		log.Println("⚠️ Failed to close queue channel:", err)
	}
	return q.conn.Close()
}

var (
	_ Queue = (*InMemoryQueue)(nil)
	_ Queue = (*AMQPQueue)(nil)
)
