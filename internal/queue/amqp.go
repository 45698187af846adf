package queue

import (
	"encoding/json"
	"log"

	"github.com/streadway/amqp"
)

// AMQPPublisher forwards ingest events to a durable RabbitMQ queue so an
// external consumer (cmd/worker) can keep the audit trail.
type AMQPPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewAMQPPublisher(url, queueName string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{conn: conn, ch: ch, queue: q.Name}, nil
}

func (p *AMQPPublisher) Publish(ev IngestEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.ch.Publish(
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *AMQPPublisher) Close() {
	p.ch.Close()
	p.conn.Close()
}

// StartAMQPForwarder bridges the in-process event queue to RabbitMQ. Forward
// failures are retried by the in-memory queue.
func StartAMQPForwarder(q Queue, pub *AMQPPublisher) {
	err := q.Subscribe(IngestEventsTopic, func(payload any) error {
		ev, ok := payload.(IngestEvent)
		if !ok {
			log.Println("⚠️ Invalid payload type, expected IngestEvent")
			return nil
		}
		return pub.Publish(ev)
	})
	if err != nil {
		log.Println("⚠️ Failed to start AMQP forwarder:", err)
	}
}
