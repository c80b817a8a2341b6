package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	AppointmentBooked    = "appointment.booked"
	AppointmentCancelled = "appointment.cancelled"
	AppointmentPaid      = "appointment.paid"
)

// Event is the message published on booking-lifecycle transitions. Consumers
// (reminders, notifications) are out of process; publish failures never fail
// the request that triggered them.
type Event struct {
	ID            string    `json:"eventId"`
	Type          string    `json:"type"`
	AppointmentID string    `json:"appointmentId"`
	UserID        string    `json:"userId"`
	DoctorID      string    `json:"docId"`
	SlotDate      string    `json:"slotDate"`
	SlotTime      string    `json:"slotTime"`
	At            time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NopPublisher is used when RabbitMQ is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{conn: conn, channel: channel, queue: queue}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    ev.At,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	return p.conn.Close()
}
