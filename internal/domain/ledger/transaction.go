package ledger

import (
	"time"

	"github.com/split/backend/internal/domain/shared"
	"github.com/split/backend/internal/domain/shared/valueobject"
)

// Transaction is the aggregate root for one ledger entry: a sender paid an
// amount that a non-empty set of recipients owe equal shares of. The
// recipient set invariant is enforced at construction; an empty set can
// never be represented.
type Transaction struct {
	shared.BaseAggregateRoot
	id          valueobject.TransactionID
	description string
	amount      valueobject.Money
	senderID    valueobject.UserID
	recipients  shared.NonEmptySet[valueobject.UserID]
	createdAt   time.Time
	removedAt   *time.Time
}

// NewTransaction records a new ledger entry and enqueues a created event.
// It fails with ErrNoRecipients when recipientIDs is empty.
func NewTransaction(
	description string,
	amount valueobject.Money,
	senderID valueobject.UserID,
	recipientIDs []valueobject.UserID,
	now time.Time,
) (*Transaction, error) {
	if senderID.IsZero() {
		return nil, shared.NewDomainError("INVALID_SENDER", "sender id is required")
	}
	if amount.Currency().IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "amount requires a currency")
	}
	recipients, err := shared.NewNonEmptySet(recipientIDs...)
	if err != nil {
		return nil, ErrNoRecipients
	}
	id, err := valueobject.NewTransactionID()
	if err != nil {
		return nil, err
	}
	t := &Transaction{
		id:          id,
		description: description,
		amount:      amount,
		senderID:    senderID,
		recipients:  recipients,
		createdAt:   now,
	}
	t.AddDomainEvent(NewTransactionCreatedEvent(t, now))
	return t, nil
}

// ReconstituteTransaction rebuilds a transaction from persisted state
// without raising events. The recipient set must already be valid.
func ReconstituteTransaction(
	id valueobject.TransactionID,
	description string,
	amount valueobject.Money,
	senderID valueobject.UserID,
	recipients shared.NonEmptySet[valueobject.UserID],
	createdAt time.Time,
	removedAt *time.Time,
) *Transaction {
	return &Transaction{
		id:          id,
		description: description,
		amount:      amount,
		senderID:    senderID,
		recipients:  recipients,
		createdAt:   createdAt,
		removedAt:   removedAt,
	}
}

// ID returns the transaction identifier
func (t *Transaction) ID() valueobject.TransactionID {
	return t.id
}

// Description returns the free-text description, possibly empty
func (t *Transaction) Description() string {
	return t.description
}

// Amount returns the total amount the sender paid
func (t *Transaction) Amount() valueobject.Money {
	return t.amount
}

// SenderID returns the paying user's identifier
func (t *Transaction) SenderID() valueobject.UserID {
	return t.senderID
}

// RecipientIDs returns the recipients in insertion order
func (t *Transaction) RecipientIDs() []valueobject.UserID {
	return t.recipients.Items()
}

// CreatedAt returns when the transaction was recorded
func (t *Transaction) CreatedAt() time.Time {
	return t.createdAt
}

// RemovedAt returns when the transaction was removed, or nil while active
func (t *Transaction) RemovedAt() *time.Time {
	return t.removedAt
}

// IsRemoved reports whether the transaction has been soft deleted
func (t *Transaction) IsRemoved() bool {
	return t.removedAt != nil
}

// Involves reports whether the user is the sender or one of the recipients
func (t *Transaction) Involves(id valueobject.UserID) bool {
	return t.senderID == id || t.recipients.Contains(id)
}

// Debts expands the transaction into its directed pairwise debts: the
// sender owes each recipient an equal share of the amount. Shares are
// truncated to whole cents with the remainder assigned one cent at a time
// to the earliest recipients, so the shares always sum to the total.
func (t *Transaction) Debts() ([]Debt, error) {
	recipients := t.recipients.Items()
	shares, err := t.amount.Split(len(recipients))
	if err != nil {
		return nil, err
	}
	debts := make([]Debt, len(recipients))
	for i, r := range recipients {
		debts[i] = Debt{From: t.senderID, To: r, Amount: shares[i]}
	}
	return debts, nil
}

// Remove soft deletes the transaction. Removing an already removed
// transaction is a no-op and does not re-stamp the removal time.
func (t *Transaction) Remove(now time.Time) {
	if t.removedAt != nil {
		return
	}
	t.removedAt = &now
	t.AddDomainEvent(NewTransactionRemovedEvent(t.id, now))
}
