package user

import (
	"context"
	"iter"

	"github.com/split/backend/internal/domain/shared/valueobject"
)

// Repository is the persistence port for the user aggregate. Removed users
// are filtered out by default; FindByIDIncludingRemoved bypasses the filter.
type Repository interface {
	// Save persists the aggregate and its flushed events atomically
	Save(ctx context.Context, u *User) error
	// FindByID loads an active user, or shared.ErrNotFound
	FindByID(ctx context.Context, id valueobject.UserID) (*User, error)
	// FindByIDIncludingRemoved loads a user regardless of removal state
	FindByIDIncludingRemoved(ctx context.Context, id valueobject.UserID) (*User, error)
	// FindByPhoneNumber loads an active user by phone, or shared.ErrNotFound
	FindByPhoneNumber(ctx context.Context, phone valueobject.PhoneNumber) (*User, error)
	// FindByIDs loads the active users among the given ids, keyed by id.
	// Missing or removed ids are simply absent from the result.
	FindByIDs(ctx context.Context, ids []valueobject.UserID) (map[valueobject.UserID]*User, error)
	// StreamAll lazily yields all active users
	StreamAll(ctx context.Context) iter.Seq2[*User, error]
}

// RelationshipRepository is the read port behind the associates view: the
// users a given user has transacted with, most recent interaction first,
// deduplicated, excluding removed users and the user themselves.
type RelationshipRepository interface {
	StreamRelatedUsers(ctx context.Context, id valueobject.UserID) iter.Seq2[*User, error]
}
