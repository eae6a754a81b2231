package user

import (
	"time"

	"github.com/split/backend/internal/domain/shared"
	"github.com/split/backend/internal/domain/shared/valueobject"
)

// AggregateTypeUser is the aggregate type for user events
const AggregateTypeUser = "User"

// User event types
const (
	EventTypeUserCreated        = "user.created"
	EventTypeUserRemoved        = "user.removed"
	EventTypeFriendshipCreated  = "user.friendship_created"
	EventTypeFriendshipRemoved  = "user.friendship_removed"
	EventTypeAuthKeyRegistered  = "user.auth_key_registered"
	EventTypeAuthKeySignCounted = "user.auth_key_sign_counted"
)

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	DisplayName string `json:"display_name"`
	PhoneNumber string `json:"phone_number"`
}

// NewUserCreatedEvent creates a user created event
func NewUserCreatedEvent(id valueobject.UserID, displayName string, phone valueobject.PhoneNumber, occurredAt time.Time) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, id.String(), occurredAt),
		DisplayName:     displayName,
		PhoneNumber:     phone.String(),
	}
}

// UserRemovedEvent is published when a user is soft deleted
type UserRemovedEvent struct {
	shared.BaseDomainEvent
}

// NewUserRemovedEvent creates a user removed event
func NewUserRemovedEvent(id valueobject.UserID, occurredAt time.Time) *UserRemovedEvent {
	return &UserRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRemoved, AggregateTypeUser, id.String(), occurredAt),
	}
}

// FriendshipCreatedEvent is published when a user gains a friend
type FriendshipCreatedEvent struct {
	shared.BaseDomainEvent
	FriendID string `json:"friend_id"`
}

// NewFriendshipCreatedEvent creates a friendship created event
func NewFriendshipCreatedEvent(id, friendID valueobject.UserID, occurredAt time.Time) *FriendshipCreatedEvent {
	return &FriendshipCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFriendshipCreated, AggregateTypeUser, id.String(), occurredAt),
		FriendID:        friendID.String(),
	}
}

// FriendshipRemovedEvent is published when a user loses a friend
type FriendshipRemovedEvent struct {
	shared.BaseDomainEvent
	FriendID string `json:"friend_id"`
}

// NewFriendshipRemovedEvent creates a friendship removed event
func NewFriendshipRemovedEvent(id, friendID valueobject.UserID, occurredAt time.Time) *FriendshipRemovedEvent {
	return &FriendshipRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFriendshipRemoved, AggregateTypeUser, id.String(), occurredAt),
		FriendID:        friendID.String(),
	}
}

// AuthKeyRegisteredEvent is published when a user registers a credential
type AuthKeyRegisteredEvent struct {
	shared.BaseDomainEvent
	AuthKeyID string `json:"auth_key_id"`
}

// NewAuthKeyRegisteredEvent creates an auth key registered event
func NewAuthKeyRegisteredEvent(id valueobject.UserID, keyID valueobject.AuthKeyID, occurredAt time.Time) *AuthKeyRegisteredEvent {
	return &AuthKeyRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAuthKeyRegistered, AggregateTypeUser, id.String(), occurredAt),
		AuthKeyID:       keyID.String(),
	}
}
