// Package queue contains the background consumer that listens to the
// selection queue and appends one audit line per event to selection.log.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AuditFile is the file name written inside the consumer's log directory.
const AuditFile = "selection.log"

// Consumer reads ProgramSelectedEvent messages from a durable queue.
type Consumer struct {
	URL    string
	Queue  string
	LogDir string
	Log    logrus.FieldLogger
}

// Run dials the broker, declares the queue (durable) and consumes until ctx
// is cancelled or the broker closes the delivery channel.  It does not
// reconnect; the returned error says why consumption stopped.
func (c *Consumer) Run(ctx context.Context) error {
	conn, err := amqp.Dial(c.URL)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.WithError(err).Warn("set QoS failed")
	}

	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(d.Body); err != nil {
				c.Log.WithError(err).Warn("handle selection event failed")
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(body []byte) error {
	var ev ProgramSelectedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.SelectionID == "" || ev.ProgramID == "" {
		return errors.New("event missing selection_id or program_id")
	}
	if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.LogDir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.LogDir, AuditFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders one audit line, newline terminated.
func FormatLine(ev ProgramSelectedEvent) string {
	session := "-"
	if ev.UserSession != nil && *ev.UserSession != "" {
		session = strconv.Quote(*ev.UserSession)
	}
	return fmt.Sprintf("[%s] Program selected | selection_id=%s | program_id=%s | program=%q | session=%s\n",
		ev.SelectedAt, ev.SelectionID, ev.ProgramID, ev.ProgramName, session)
}
