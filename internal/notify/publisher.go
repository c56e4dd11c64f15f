// Package notify broadcasts decided seat changes so other viewers can refresh their layouts.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

// SeatMessage is the JSON body published for every seat change.
type SeatMessage struct {
	EventID       string    `json:"event_id"`
	SeatID        string    `json:"seat_id"`
	Row           int       `json:"row"`
	Column        int       `json:"column"`
	ReservationID string    `json:"reservation_id"`
	Action        string    `json:"action"`
	At            time.Time `json:"at"`
}

func newSeatMessage(change domain.SeatChange) SeatMessage {
	return SeatMessage{
		EventID:       change.EventID,
		SeatID:        change.SeatID,
		Row:           change.Row,
		Column:        change.Column,
		ReservationID: change.ReservationID,
		Action:        string(change.Action),
		At:            change.At.UTC(),
	}
}

// RoutingKey returns the topic routing key for a seat action, e.g. "seat.reserved".
func RoutingKey(action domain.SeatAction) string {
	return "seat." + string(action)
}

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends seat changes to a RabbitMQ topic exchange.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// SeatChanged publishes change under its action's routing key.
func (p *Publisher) SeatChanged(ctx context.Context, change domain.SeatChange) error {
	return p.PublishJSON(ctx, RoutingKey(change.Action), newSeatMessage(change))
}

func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	// amqp channels are not safe for concurrent publishes.
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
