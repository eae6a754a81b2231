package ledger

import (
	"context"
	"iter"

	"github.com/split/backend/internal/domain/shared/valueobject"
)

// Repository is the persistence port for the transaction aggregate.
// Removed transactions are filtered out by default; the including-removed
// lookup exists so idempotent removal can see already removed entries.
type Repository interface {
	// Save persists the aggregate and its flushed events atomically
	Save(ctx context.Context, t *Transaction) error
	// FindByID loads an active transaction, or shared.ErrNotFound
	FindByID(ctx context.Context, id valueobject.TransactionID) (*Transaction, error)
	// FindByIDIncludingRemoved loads a transaction regardless of removal state
	FindByIDIncludingRemoved(ctx context.Context, id valueobject.TransactionID) (*Transaction, error)
	// StreamInvolvingUser lazily yields the active transactions where the
	// user is the sender or a recipient, oldest first
	StreamInvolvingUser(ctx context.Context, id valueobject.UserID) iter.Seq2[*Transaction, error]
}
