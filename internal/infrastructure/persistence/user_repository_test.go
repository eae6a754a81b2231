package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/split/backend/internal/domain/shared"
	"github.com/split/backend/internal/domain/shared/valueobject"
	"github.com/split/backend/internal/domain/user"
	"github.com/split/backend/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.UserModel{},
		&models.FriendshipModel{},
		&models.AuthKeyModel{},
		&models.TransactionModel{},
		&models.TransactionRecipientModel{},
	)
	require.NoError(t, err)

	return db
}

func mustNewUser(t *testing.T, id, name, phone string, now time.Time) *user.User {
	u, err := user.NewUser(valueobject.MustUserID(id), name, valueobject.MustPhoneNumber(phone), now)
	require.NoError(t, err)
	return u
}

func TestGormUserRepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	alice := mustNewUser(t, "alice", "Alice", "+46700000001", now)
	require.NoError(t, repo.Save(ctx, alice))

	found, err := repo.FindByID(ctx, valueobject.MustUserID("alice"))
	require.NoError(t, err)
	assert.Equal(t, "Alice", found.DisplayName())
	assert.Equal(t, "+46700000001", found.PhoneNumber().String())
	assert.False(t, found.IsRemoved())
}

func TestGormUserRepository_FailedSaveKeepsPendingEvents(t *testing.T) {
	// No tables migrated, so the save fails before the events are drained
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	repo := NewGormUserRepository(db)
	now := time.Now().Truncate(time.Second)

	alice := mustNewUser(t, "alice", "Alice", "+46700000001", now)
	require.Error(t, repo.Save(context.Background(), alice))

	events := alice.FlushEvents()
	require.Len(t, events, 1, "a failed save must leave the event buffer intact")
	assert.Equal(t, user.EventTypeUserCreated, events[0].EventType())
}

func TestGormUserRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)

	_, err := repo.FindByID(context.Background(), valueobject.MustUserID("ghost"))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_RemovedUserHiddenByDefault(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	alice := mustNewUser(t, "alice", "Alice", "+46700000001", now)
	alice.Remove(now)
	require.NoError(t, repo.Save(ctx, alice))

	_, err := repo.FindByID(ctx, valueobject.MustUserID("alice"))
	assert.ErrorIs(t, err, shared.ErrNotFound)

	found, err := repo.FindByIDIncludingRemoved(ctx, valueobject.MustUserID("alice"))
	require.NoError(t, err)
	assert.True(t, found.IsRemoved())
}

func TestGormUserRepository_FindByPhoneNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	alice := mustNewUser(t, "alice", "Alice", "+46700000001", now)
	require.NoError(t, repo.Save(ctx, alice))

	found, err := repo.FindByPhoneNumber(ctx, valueobject.MustPhoneNumber("+46700000001"))
	require.NoError(t, err)
	assert.Equal(t, "alice", found.ID().String())

	_, err = repo.FindByPhoneNumber(ctx, valueobject.MustPhoneNumber("+46700000099"))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_FindByIDs_SkipsMissingAndRemoved(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	alice := mustNewUser(t, "alice", "Alice", "+46700000001", now)
	bob := mustNewUser(t, "bob", "Bob", "+46700000002", now)
	bob.Remove(now)
	require.NoError(t, repo.Save(ctx, alice))
	require.NoError(t, repo.Save(ctx, bob))

	found, err := repo.FindByIDs(ctx, []valueobject.UserID{
		valueobject.MustUserID("alice"),
		valueobject.MustUserID("bob"),
		valueobject.MustUserID("ghost"),
	})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Contains(t, found, valueobject.MustUserID("alice"))
}

func TestGormUserRepository_FriendshipRecordsSurviveRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	alice := mustNewUser(t, "alice", "Alice", "+46700000001", now)
	bob := mustNewUser(t, "bob", "Bob", "+46700000002", now)
	require.NoError(t, alice.CreateFriendship(bob, now))
	require.NoError(t, repo.Save(ctx, alice))
	require.NoError(t, repo.Save(ctx, bob))

	// Revoke and re-create. The revoked record must survive as history
	// and the new edge must land at the next position.
	later := now.Add(time.Hour)
	alice, err := repo.FindByID(ctx, valueobject.MustUserID("alice"))
	require.NoError(t, err)
	bob, err = repo.FindByID(ctx, valueobject.MustUserID("bob"))
	require.NoError(t, err)

	alice.RemoveFriendship(bob, later)
	require.NoError(t, repo.Save(ctx, alice))
	require.NoError(t, repo.Save(ctx, bob))

	alice, err = repo.FindByID(ctx, valueobject.MustUserID("alice"))
	require.NoError(t, err)
	bob, err = repo.FindByID(ctx, valueobject.MustUserID("bob"))
	require.NoError(t, err)
	assert.Empty(t, alice.Friendships())
	assert.Len(t, alice.FriendshipRecords(), 1)

	evenLater := later.Add(time.Hour)
	require.NoError(t, alice.CreateFriendship(bob, evenLater))
	require.NoError(t, repo.Save(ctx, alice))
	require.NoError(t, repo.Save(ctx, bob))

	alice, err = repo.FindByID(ctx, valueobject.MustUserID("alice"))
	require.NoError(t, err)
	assert.Len(t, alice.Friendships(), 1)
	assert.Len(t, alice.FriendshipRecords(), 2)
	assert.True(t, alice.IsFriendOf(valueobject.MustUserID("bob")))
}

func TestGormUserRepository_AuthKeysRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	alice := mustNewUser(t, "alice", "Alice", "+46700000001", now)
	keyID, err := valueobject.NewAuthKeyID("key-1")
	require.NoError(t, err)
	require.NoError(t, alice.RegisterAuthKey(keyID, []byte("public-key-bytes"), 3, now))
	require.NoError(t, repo.Save(ctx, alice))

	found, err := repo.FindByID(ctx, valueobject.MustUserID("alice"))
	require.NoError(t, err)
	require.Len(t, found.AuthKeys(), 1)
	key := found.FindAuthKey(keyID)
	require.NotNil(t, key)
	assert.Equal(t, []byte("public-key-bytes"), key.PublicKey())
	assert.Equal(t, uint32(3), key.SignCount())

	require.NoError(t, found.IncreaseSignCount(keyID, 4))
	require.NoError(t, repo.Save(ctx, found))

	found, err = repo.FindByID(ctx, valueobject.MustUserID("alice"))
	require.NoError(t, err)
	assert.Equal(t, uint32(4), found.FindAuthKey(keyID).SignCount())
}

func TestGormUserRepository_StreamAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	alice := mustNewUser(t, "alice", "Alice", "+46700000001", now)
	bob := mustNewUser(t, "bob", "Bob", "+46700000002", now)
	carol := mustNewUser(t, "carol", "Carol", "+46700000003", now)
	carol.Remove(now)
	require.NoError(t, repo.Save(ctx, alice))
	require.NoError(t, repo.Save(ctx, bob))
	require.NoError(t, repo.Save(ctx, carol))

	var ids []string
	for u, err := range repo.StreamAll(ctx) {
		require.NoError(t, err)
		ids = append(ids, u.ID().String())
	}
	assert.Equal(t, []string{"alice", "bob"}, ids)
}
