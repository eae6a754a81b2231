package user

import (
	"time"

	"github.com/split/backend/internal/domain/shared"
	"github.com/split/backend/internal/domain/shared/valueobject"
)

// User is the aggregate root for a person using the service. It owns the
// user's friendship records and registered authentication keys. A
// friendship lives on both users' aggregates; the two sides are saved
// independently, so mutating a friendship is a two-aggregate operation
// driven by the service layer.
type User struct {
	shared.BaseAggregateRoot
	id          valueobject.UserID
	displayName string
	phoneNumber valueobject.PhoneNumber
	friendships []Friendship
	authKeys    []*AuthKeyEntity
	createdAt   time.Time
	removedAt   *time.Time
}

// NewUser creates a user and records a created event
func NewUser(id valueobject.UserID, displayName string, phone valueobject.PhoneNumber, now time.Time) (*User, error) {
	if id.IsZero() {
		return nil, shared.NewDomainError("INVALID_USER_ID", "user id is required")
	}
	if displayName == "" {
		return nil, shared.NewDomainError("INVALID_DISPLAY_NAME", "display name is required")
	}
	if phone.IsZero() {
		return nil, shared.NewDomainError("INVALID_PHONE_NUMBER", "phone number is required")
	}
	u := &User{
		id:          id,
		displayName: displayName,
		phoneNumber: phone,
		createdAt:   now,
	}
	u.AddDomainEvent(NewUserCreatedEvent(id, displayName, phone, now))
	return u, nil
}

// ReconstituteUser rebuilds a user from persisted state without raising events
func ReconstituteUser(
	id valueobject.UserID,
	displayName string,
	phone valueobject.PhoneNumber,
	friendships []Friendship,
	authKeys []*AuthKeyEntity,
	createdAt time.Time,
	removedAt *time.Time,
) *User {
	return &User{
		id:          id,
		displayName: displayName,
		phoneNumber: phone,
		friendships: friendships,
		authKeys:    authKeys,
		createdAt:   createdAt,
		removedAt:   removedAt,
	}
}

// ID returns the user identifier
func (u *User) ID() valueobject.UserID {
	return u.id
}

// DisplayName returns the user's display name
func (u *User) DisplayName() string {
	return u.displayName
}

// PhoneNumber returns the user's phone number
func (u *User) PhoneNumber() valueobject.PhoneNumber {
	return u.phoneNumber
}

// CreatedAt returns when the user was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// RemovedAt returns when the user was removed, or nil for active users
func (u *User) RemovedAt() *time.Time {
	return u.removedAt
}

// IsRemoved reports whether the user has been soft deleted
func (u *User) IsRemoved() bool {
	return u.removedAt != nil
}

// HasSameContent reports whether the given attributes match the stored
// ones. Used to decide whether a repeated create is a harmless retry.
func (u *User) HasSameContent(displayName string, phone valueobject.PhoneNumber) bool {
	return u.displayName == displayName && u.phoneNumber.Equals(phone)
}

// Friendships returns the user's active friendships in creation order
func (u *User) Friendships() []Friendship {
	var out []Friendship
	for _, f := range u.friendships {
		if f.IsActive() {
			out = append(out, f)
		}
	}
	return out
}

// FriendshipRecords returns every friendship record including revoked
// ones. Intended for the persistence layer.
func (u *User) FriendshipRecords() []Friendship {
	out := make([]Friendship, len(u.friendships))
	copy(out, u.friendships)
	return out
}

// IsFriendOf reports whether the user has an active friendship towards
// the given user.
func (u *User) IsFriendOf(friendID valueobject.UserID) bool {
	for _, f := range u.friendships {
		if f.IsActive() && f.friendID == friendID {
			return true
		}
	}
	return false
}

// CreateFriendship establishes a friendship between this user and another,
// appending the mirror edge to both aggregates. Befriending yourself is
// rejected; an already active friendship makes the call a no-op. The
// created event is recorded on this aggregate only. Both aggregates must
// be saved by the caller for the edge to be durable on both sides.
func (u *User) CreateFriendship(other *User, now time.Time) error {
	if other.id == u.id {
		return shared.NewDomainError("AUTO_FRIENDSHIP", "cannot befriend yourself")
	}
	if u.IsFriendOf(other.id) {
		return nil
	}
	u.friendships = append(u.friendships, NewFriendship(other.id, now))
	if !other.IsFriendOf(u.id) {
		other.friendships = append(other.friendships, NewFriendship(u.id, now))
	}
	u.AddDomainEvent(NewFriendshipCreatedEvent(u.id, other.id, now))
	return nil
}

// RemoveFriendship revokes the friendship between this user and another,
// stamping both mirror edges. Records are rewritten, never deleted. A
// missing or already revoked friendship makes the call a no-op.
func (u *User) RemoveFriendship(other *User, now time.Time) {
	if !u.IsFriendOf(other.id) {
		return
	}
	u.revokeEdge(other.id, now)
	other.revokeEdge(u.id, now)
	u.AddDomainEvent(NewFriendshipRemovedEvent(u.id, other.id, now))
}

func (u *User) revokeEdge(friendID valueobject.UserID, now time.Time) {
	for i, f := range u.friendships {
		if f.IsActive() && f.friendID == friendID {
			u.friendships[i] = f.markRemoved(now)
			return
		}
	}
}

// AuthKeys returns the user's registered credentials
func (u *User) AuthKeys() []*AuthKeyEntity {
	out := make([]*AuthKeyEntity, len(u.authKeys))
	copy(out, u.authKeys)
	return out
}

// FindAuthKey returns the credential with the given id, or nil
func (u *User) FindAuthKey(keyID valueobject.AuthKeyID) *AuthKeyEntity {
	for _, k := range u.authKeys {
		if k.id == keyID {
			return k
		}
	}
	return nil
}

// RegisterAuthKey attaches a new credential to the user
func (u *User) RegisterAuthKey(keyID valueobject.AuthKeyID, publicKey []byte, signCount uint32, now time.Time) error {
	if u.FindAuthKey(keyID) != nil {
		return NewAuthKeyAlreadyRegisteredError(keyID)
	}
	u.authKeys = append(u.authKeys, NewAuthKeyEntity(keyID, publicKey, signCount, now))
	u.AddDomainEvent(NewAuthKeyRegisteredEvent(u.id, keyID, now))
	return nil
}

// IncreaseSignCount advances the sign counter of one of the user's
// credentials. The new value must be exactly one above the current one.
func (u *User) IncreaseSignCount(keyID valueobject.AuthKeyID, newCount uint32) error {
	key := u.FindAuthKey(keyID)
	if key == nil {
		return NewAuthKeyNotFoundError(keyID)
	}
	return key.IncreaseSignCount(newCount)
}

// Remove soft deletes the user. Removing an already removed user is a
// no-op and does not re-stamp the removal time.
func (u *User) Remove(now time.Time) {
	if u.removedAt != nil {
		return
	}
	u.removedAt = &now
	u.AddDomainEvent(NewUserRemovedEvent(u.id, now))
}
