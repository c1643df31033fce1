package events

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/log"
)

const CoursesExchange = "courses"

type Type string

const (
	CourseDeleted Type = "course.deleted"
	RosterUpdated Type = "roster.updated"
)

type Event struct {
	Type     Type
	CourseID primitive.ObjectID
	Role     entity.Role
	Users    []primitive.ObjectID
	At       time.Time
}

type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// Noop drops every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, *Event) error { return nil }
func (Noop) Close() error                          { return nil }

type AMQP struct {
	mu   sync.Mutex
	conn *amqp.Connection
}

var _ Publisher = (*AMQP)(nil)

// Dial connects to the broker, retrying with a doubling wait, and declares
// the courses exchange.
func Dial(uri string, attempts int) (*AMQP, error) {
	log.Logger.Info("Trying to connect to rabbitmq...")

	var conn *amqp.Connection
	wait := time.Second
	for i := 0; ; i++ {
		var err error
		conn, err = amqp.Dial(uri)
		if err == nil {
			break
		}
		if i >= attempts-1 {
			return nil, fmt.Errorf("dialing amqp: %w", err)
		}
		log.Logger.Warn("rabbitmq not reachable, retrying", zap.Duration("wait", wait), zap.Error(err))
		time.Sleep(wait)
		wait *= 2
	}
	log.Logger.Info("Connected to rabbitmq")

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		CoursesExchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declaring exchange: %w", err)
	}

	return &AMQP{conn: conn}, nil
}

func (a *AMQP) Publish(ctx context.Context, event *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := Encode(event)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ch, err := a.conn.Channel()
	if err != nil {
		return fmt.Errorf("opening channel: %w", err)
	}
	defer ch.Close()

	err = ch.Publish(CoursesExchange, string(event.Type), false, false, amqp.Publishing{
		ContentType: "application/x-gob",
		Timestamp:   event.At,
		Type:        string(event.Type),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publishing %s: %w", event.Type, err)
	}
	return nil
}

func (a *AMQP) Close() error {
	return a.conn.Close()
}

func Encode(event *Event) ([]byte, error) {
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(event); err != nil {
		return nil, fmt.Errorf("encoding event: %w", err)
	}
	return b.Bytes(), nil
}

func Decode(body []byte) (*Event, error) {
	var e *Event
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&e); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	return e, nil
}

// Emit publishes event and logs a failure instead of returning it.
func Emit(ctx context.Context, p Publisher, event *Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	if err := p.Publish(ctx, event); err != nil {
		log.Logger.Warn("unable to publish event",
			zap.String("type", string(event.Type)),
			zap.String("courseID", event.CourseID.Hex()),
			zap.Error(err),
		)
	}
}
