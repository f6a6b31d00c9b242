// Package notify delivers operator and requester notifications. Delivery is
// best effort: callers invoke a Dispatcher only after their transaction has
// committed and record the outcome as an event instead of rolling back.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mtlprog/workdesk/internal/domain"
)

// Dispatcher sends a text message to a user or operator.
type Dispatcher interface {
	Send(ctx context.Context, to domain.Recipient, text string) error
}

// Message is the wire format published to queue-based transports.
type Message struct {
	RecipientKind domain.RecipientKind `json:"recipient_kind"`
	RecipientID   string               `json:"recipient_id"`
	Text          string               `json:"text"`
	CreatedAt     time.Time            `json:"created_at"`
}

func encode(to domain.Recipient, text string) ([]byte, error) {
	body, err := json.Marshal(Message{
		RecipientKind: to.Kind,
		RecipientID:   to.ID,
		Text:          text,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode notification: %w", err)
	}
	return body, nil
}

func validate(to domain.Recipient, text string) error {
	if to.ID == "" {
		return fmt.Errorf("%w: empty recipient", domain.ErrNotificationFailed)
	}
	if text == "" {
		return fmt.Errorf("%w: empty text", domain.ErrNotificationFailed)
	}
	return nil
}
