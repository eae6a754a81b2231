package user

import (
	"math"
	"time"

	"github.com/split/backend/internal/domain/shared/valueobject"
)

// AuthKeyEntity is a WebAuthn credential registered to a user. The sign
// counter is monotonic: every authentication must advance it by exactly
// one, which lets the server detect cloned authenticators.
type AuthKeyEntity struct {
	id           valueobject.AuthKeyID
	publicKey    []byte
	signCount    uint32
	registeredAt time.Time
}

// NewAuthKeyEntity creates a credential with its initial sign count
func NewAuthKeyEntity(id valueobject.AuthKeyID, publicKey []byte, signCount uint32, registeredAt time.Time) *AuthKeyEntity {
	return &AuthKeyEntity{
		id:           id,
		publicKey:    publicKey,
		signCount:    signCount,
		registeredAt: registeredAt,
	}
}

// ID returns the credential identifier
func (k *AuthKeyEntity) ID() valueobject.AuthKeyID {
	return k.id
}

// PublicKey returns the stored credential public key
func (k *AuthKeyEntity) PublicKey() []byte {
	return k.publicKey
}

// SignCount returns the current sign counter value
func (k *AuthKeyEntity) SignCount() uint32 {
	return k.signCount
}

// RegisteredAt returns when the credential was registered
func (k *AuthKeyEntity) RegisteredAt() time.Time {
	return k.registeredAt
}

// IncreaseSignCount accepts a new counter value only when it advances the
// current one by exactly one. Anything else is rejected.
func (k *AuthKeyEntity) IncreaseSignCount(newCount uint32) error {
	// A saturated counter has no valid successor; without this check the
	// +1 below would wrap and accept newCount 0.
	if k.signCount == math.MaxUint32 || newCount != k.signCount+1 {
		return NewSignCountError(k.id, k.signCount, newCount)
	}
	k.signCount = newCount
	return nil
}
