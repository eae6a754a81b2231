package models

import (
	"fmt"
	"time"

	"github.com/split/backend/internal/domain/shared/valueobject"
	"github.com/split/backend/internal/domain/user"
)

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	ID          string     `gorm:"type:varchar(100);primaryKey"`
	DisplayName string     `gorm:"type:varchar(200);not null"`
	PhoneNumber string     `gorm:"type:varchar(50);not null;index"`
	CreatedAt   time.Time  `gorm:"not null"`
	RemovedAt   *time.Time `gorm:"index"`

	Friendships []FriendshipModel `gorm:"foreignKey:UserID;references:ID"`
	AuthKeys    []AuthKeyModel    `gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// FriendshipModel is one directed friendship record owned by a user.
// Records are append and rewrite only; removal stamps removed_at and a
// later re-befriending appends a new record at the next position.
type FriendshipModel struct {
	UserID    string     `gorm:"type:varchar(100);primaryKey"`
	Position  int        `gorm:"primaryKey;autoIncrement:false"`
	FriendID  string     `gorm:"type:varchar(100);not null;index"`
	CreatedAt time.Time  `gorm:"not null"`
	RemovedAt *time.Time
}

// TableName returns the table name for GORM
func (FriendshipModel) TableName() string {
	return "friendships"
}

// AuthKeyModel is a registered credential owned by a user.
type AuthKeyModel struct {
	UserID       string    `gorm:"type:varchar(100);primaryKey"`
	KeyID        string    `gorm:"type:varchar(200);primaryKey"`
	PublicKey    []byte    `gorm:"not null"`
	SignCount    uint32    `gorm:"not null;default:0"`
	RegisteredAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AuthKeyModel) TableName() string {
	return "auth_keys"
}

// ToDomain converts the persistence model to a domain User aggregate.
// Friendship records must already be ordered by position.
func (m *UserModel) ToDomain() (*user.User, error) {
	id, err := valueobject.NewUserID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt user row %q: %w", m.ID, err)
	}
	phone, err := valueobject.NewPhoneNumber(m.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("corrupt phone number for user %q: %w", m.ID, err)
	}

	friendships := make([]user.Friendship, 0, len(m.Friendships))
	for _, f := range m.Friendships {
		friendID, err := valueobject.NewUserID(f.FriendID)
		if err != nil {
			return nil, fmt.Errorf("corrupt friendship record for user %q: %w", m.ID, err)
		}
		friendships = append(friendships, user.ReconstituteFriendship(friendID, f.CreatedAt, f.RemovedAt))
	}

	authKeys := make([]*user.AuthKeyEntity, 0, len(m.AuthKeys))
	for _, k := range m.AuthKeys {
		keyID, err := valueobject.NewAuthKeyID(k.KeyID)
		if err != nil {
			return nil, fmt.Errorf("corrupt auth key for user %q: %w", m.ID, err)
		}
		authKeys = append(authKeys, user.NewAuthKeyEntity(keyID, k.PublicKey, k.SignCount, k.RegisteredAt))
	}

	return user.ReconstituteUser(id, m.DisplayName, phone, friendships, authKeys, m.CreatedAt, m.RemovedAt), nil
}

// FromDomain populates the persistence model from a domain User aggregate.
func (m *UserModel) FromDomain(u *user.User) {
	m.ID = u.ID().String()
	m.DisplayName = u.DisplayName()
	m.PhoneNumber = u.PhoneNumber().String()
	m.CreatedAt = u.CreatedAt()
	m.RemovedAt = u.RemovedAt()

	records := u.FriendshipRecords()
	m.Friendships = make([]FriendshipModel, len(records))
	for i, f := range records {
		m.Friendships[i] = FriendshipModel{
			UserID:    m.ID,
			Position:  i,
			FriendID:  f.FriendID().String(),
			CreatedAt: f.CreatedAt(),
			RemovedAt: f.RemovedAt(),
		}
	}

	keys := u.AuthKeys()
	m.AuthKeys = make([]AuthKeyModel, len(keys))
	for i, k := range keys {
		m.AuthKeys[i] = AuthKeyModel{
			UserID:       m.ID,
			KeyID:        k.ID().String(),
			PublicKey:    k.PublicKey(),
			SignCount:    k.SignCount(),
			RegisteredAt: k.RegisteredAt(),
		}
	}
}

// UserModelFromDomain creates a new persistence model from a domain User aggregate.
func UserModelFromDomain(u *user.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
