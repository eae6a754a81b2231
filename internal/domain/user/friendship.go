package user

import (
	"time"

	"github.com/split/backend/internal/domain/shared/valueobject"
)

// Friendship records that the owning user considers another user a friend.
// Friendships are stored on both sides; each side is owned by its own
// aggregate and saved independently. The record list is append and rewrite
// only: removal stamps RemovedAt instead of deleting the entry.
type Friendship struct {
	friendID  valueobject.UserID
	createdAt time.Time
	removedAt *time.Time
}

// NewFriendship creates an active friendship towards the given user
func NewFriendship(friendID valueobject.UserID, createdAt time.Time) Friendship {
	return Friendship{friendID: friendID, createdAt: createdAt}
}

// ReconstituteFriendship rebuilds a friendship record from persisted state
func ReconstituteFriendship(friendID valueobject.UserID, createdAt time.Time, removedAt *time.Time) Friendship {
	return Friendship{friendID: friendID, createdAt: createdAt, removedAt: removedAt}
}

// FriendID returns the befriended user's identifier
func (f Friendship) FriendID() valueobject.UserID {
	return f.friendID
}

// CreatedAt returns when the friendship was established
func (f Friendship) CreatedAt() time.Time {
	return f.createdAt
}

// RemovedAt returns when the friendship was revoked, or nil while active
func (f Friendship) RemovedAt() *time.Time {
	return f.removedAt
}

// IsActive reports whether the friendship is still in effect
func (f Friendship) IsActive() bool {
	return f.removedAt == nil
}

func (f Friendship) markRemoved(now time.Time) Friendship {
	f.removedAt = &now
	return f
}
