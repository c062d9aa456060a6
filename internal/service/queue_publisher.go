// Package service provides functions to publish domain events to RabbitMQ.
// Errors are wrapped and returned; logging them is left to the caller.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/program-selection/internal/model"
	q "github.com/iliyamo/program-selection/internal/queue"
)

// SelectionPublisher publishes ProgramSelectedEvent messages.  Each publish
// opens its own connection, so the type holds no broker state and is safe
// for concurrent use.
type SelectionPublisher struct {
	URL   string
	Queue string
}

// PublishSelection publishes the event for s to the configured queue.  The
// function never panics; any error is returned so the caller can choose to
// ignore it.  Messages are marked as persistent.
func (p *SelectionPublisher) PublishSelection(ctx context.Context, s model.Selection) error {
	body, err := json.Marshal(q.NewProgramSelectedEvent(s))
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("rabbitmq: declare queue: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    s.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.Queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}
