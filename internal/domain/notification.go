package domain

import "time"

// RecipientKind tells the messaging front-end which address book to use.
type RecipientKind string

const (
	RecipientUser     RecipientKind = "user"
	RecipientOperator RecipientKind = "operator"
)

// Recipient identifies who a notification is addressed to.
type Recipient struct {
	Kind RecipientKind
	ID   string
}

// UserRecipient addresses a member of the messaging front-end.
func UserRecipient(id string) Recipient {
	return Recipient{Kind: RecipientUser, ID: id}
}

// OperatorRecipient addresses an operator.
func OperatorRecipient(id string) Recipient {
	return Recipient{Kind: RecipientOperator, ID: id}
}

// Notification is an outbox row awaiting delivery by the messaging front-end.
type Notification struct {
	ID        string
	Recipient Recipient
	Text      string
	CreatedAt time.Time
	SentAt    *time.Time
}
