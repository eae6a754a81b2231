package ledger

import (
	"time"

	"github.com/split/backend/internal/domain/shared"
	"github.com/split/backend/internal/domain/shared/valueobject"
)

// AggregateTypeTransaction is the aggregate type for transaction events
const AggregateTypeTransaction = "Transaction"

// Transaction event types
const (
	EventTypeTransactionCreated = "transaction.created"
	EventTypeTransactionRemoved = "transaction.removed"
)

// TransactionCreatedEvent is published when a transaction is recorded
type TransactionCreatedEvent struct {
	shared.BaseDomainEvent
	Description  string   `json:"description"`
	Amount       string   `json:"amount"`
	Currency     string   `json:"currency"`
	SenderID     string   `json:"sender_id"`
	RecipientIDs []string `json:"recipient_ids"`
}

// NewTransactionCreatedEvent creates a transaction created event
func NewTransactionCreatedEvent(t *Transaction, occurredAt time.Time) *TransactionCreatedEvent {
	recipients := t.RecipientIDs()
	ids := make([]string, len(recipients))
	for i, r := range recipients {
		ids[i] = r.String()
	}
	return &TransactionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionCreated, AggregateTypeTransaction, t.ID().String(), occurredAt),
		Description:     t.Description(),
		Amount:          t.Amount().Amount().String(),
		Currency:        t.Amount().Currency().Code(),
		SenderID:        t.SenderID().String(),
		RecipientIDs:    ids,
	}
}

// TransactionRemovedEvent is published when a transaction is soft deleted
type TransactionRemovedEvent struct {
	shared.BaseDomainEvent
}

// NewTransactionRemovedEvent creates a transaction removed event
func NewTransactionRemovedEvent(id valueobject.TransactionID, occurredAt time.Time) *TransactionRemovedEvent {
	return &TransactionRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionRemoved, AggregateTypeTransaction, id.String(), occurredAt),
	}
}
