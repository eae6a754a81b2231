package user

import (
	"time"

	"github.com/split/backend/internal/domain/user"
)

// CreateUserRequest represents a request to create a new user
type CreateUserRequest struct {
	ID          string `json:"id" binding:"required,min=1,max=100"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=200"`
	PhoneNumber string `json:"phone_number" binding:"required,max=50,e164ish"`
}

// CreateFriendshipRequest represents a request to befriend another user
type CreateFriendshipRequest struct {
	FriendID string `json:"friend_id" binding:"required,min=1,max=100"`
}

// RegisterAuthKeyRequest represents a request to register a credential
type RegisterAuthKeyRequest struct {
	AuthKeyID string `json:"auth_key_id" binding:"required,min=1,max=500"`
	PublicKey []byte `json:"public_key" binding:"required"`
	SignCount uint32 `json:"sign_count"`
}

// IncreaseSignCountRequest represents a sign counter advance after a
// successful authentication
type IncreaseSignCountRequest struct {
	AuthKeyID string `json:"auth_key_id" binding:"required,min=1,max=500"`
	SignCount uint32 `json:"sign_count" binding:"required"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthKeyResponse represents a registered credential in API responses
type AuthKeyResponse struct {
	AuthKeyID    string    `json:"auth_key_id"`
	SignCount    uint32    `json:"sign_count"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ToUserResponse converts a user aggregate to a response DTO
func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID().String(),
		DisplayName: u.DisplayName(),
		PhoneNumber: u.PhoneNumber().String(),
		CreatedAt:   u.CreatedAt(),
	}
}

// ToAuthKeyResponses converts a user's credentials to response DTOs
func ToAuthKeyResponses(keys []*user.AuthKeyEntity) []AuthKeyResponse {
	out := make([]AuthKeyResponse, len(keys))
	for i, k := range keys {
		out[i] = AuthKeyResponse{
			AuthKeyID:    k.ID().String(),
			SignCount:    k.SignCount(),
			RegisteredAt: k.RegisteredAt(),
		}
	}
	return out
}
