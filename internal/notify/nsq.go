package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nsqio/go-nsq"

	"github.com/mtlprog/workdesk/internal/domain"
)

// NSQDispatcher publishes notifications to an nsqd topic.
type NSQDispatcher struct {
	producer *nsq.Producer
	topic    string
}

// NewNSQDispatcher connects a producer to nsqd at addr.
func NewNSQDispatcher(addr, topic string) (*NSQDispatcher, error) {
	config := nsq.NewConfig()
	producer, err := nsq.NewProducer(addr, config)
	if err != nil {
		return nil, fmt.Errorf("create nsq producer: %w", err)
	}
	if err := producer.Ping(); err != nil {
		producer.Stop()
		return nil, fmt.Errorf("ping nsqd at %s: %w", addr, err)
	}

	slog.Info("nsq notification producer connected", "nsqd_addr", addr, "topic", topic)

	return &NSQDispatcher{producer: producer, topic: topic}, nil
}

// Send publishes the notification.
func (d *NSQDispatcher) Send(ctx context.Context, to domain.Recipient, text string) error {
	if err := validate(to, text); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNotificationFailed, err)
	}

	body, err := encode(to, text)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNotificationFailed, err)
	}

	if err := d.producer.Publish(d.topic, body); err != nil {
		return fmt.Errorf("%w: publish to %s: %w", domain.ErrNotificationFailed, d.topic, err)
	}
	return nil
}

// Close stops the producer.
func (d *NSQDispatcher) Close() {
	d.producer.Stop()
}
