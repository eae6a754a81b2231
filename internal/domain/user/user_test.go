package user

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/split/backend/internal/domain/shared/valueobject"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestUser(t *testing.T, id string) *User {
	t.Helper()
	digits := make([]byte, 0, len(id))
	for i := 0; i < len(id); i++ {
		digits = append(digits, '0'+id[i]%10)
	}
	u, err := NewUser(
		valueobject.MustUserID(id),
		"User "+id,
		valueobject.MustPhoneNumber("+4670"+string(digits)),
		testTime,
	)
	require.NoError(t, err)
	u.FlushEvents()
	return u
}

func TestNewUser(t *testing.T) {
	u, err := NewUser(
		valueobject.MustUserID("alice"),
		"Alice",
		valueobject.MustPhoneNumber("+46701111111"),
		testTime,
	)
	require.NoError(t, err)

	assert.Equal(t, "alice", u.ID().String())
	assert.Equal(t, "Alice", u.DisplayName())
	assert.False(t, u.IsRemoved())

	events := u.FlushEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeUserCreated, events[0].EventType())
	assert.Equal(t, "alice", events[0].AggregateID())
}

func TestNewUser_Validation(t *testing.T) {
	phone := valueobject.MustPhoneNumber("+46701111111")

	_, err := NewUser(valueobject.UserID{}, "Alice", phone, testTime)
	assert.Error(t, err)

	_, err = NewUser(valueobject.MustUserID("alice"), "", phone, testTime)
	assert.Error(t, err)

	_, err = NewUser(valueobject.MustUserID("alice"), "Alice", valueobject.PhoneNumber{}, testTime)
	assert.Error(t, err)
}

func TestUser_FlushEventsDrainsBuffer(t *testing.T) {
	u := newTestUser(t, "alice")
	u.Remove(testTime)

	first := u.FlushEvents()
	assert.Len(t, first, 1)
	assert.Empty(t, u.FlushEvents())
}

func TestUser_CreateFriendship_Symmetric(t *testing.T) {
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	err := alice.CreateFriendship(bob, testTime)
	require.NoError(t, err)

	assert.True(t, alice.IsFriendOf(bob.ID()))
	assert.True(t, bob.IsFriendOf(alice.ID()))

	events := alice.FlushEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeFriendshipCreated, events[0].EventType())
	assert.Empty(t, bob.FlushEvents(), "event belongs to the initiating side")
}

func TestUser_CreateFriendship_RejectsSelf(t *testing.T) {
	alice := newTestUser(t, "alice")

	err := alice.CreateFriendship(alice, testTime)
	assert.Error(t, err)
	assert.False(t, alice.IsFriendOf(alice.ID()))
}

func TestUser_CreateFriendship_IdempotentWhenActive(t *testing.T) {
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	require.NoError(t, alice.CreateFriendship(bob, testTime))
	alice.FlushEvents()

	require.NoError(t, alice.CreateFriendship(bob, testTime.Add(time.Hour)))

	assert.Len(t, alice.Friendships(), 1)
	assert.Len(t, bob.Friendships(), 1)
	assert.Empty(t, alice.FlushEvents(), "repeated create must not re-emit")
}

func TestUser_RemoveFriendship_MarksBothSides(t *testing.T) {
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")
	require.NoError(t, alice.CreateFriendship(bob, testTime))
	alice.FlushEvents()

	removedAt := testTime.Add(time.Hour)
	bob.RemoveFriendship(alice, removedAt)

	assert.False(t, alice.IsFriendOf(bob.ID()))
	assert.False(t, bob.IsFriendOf(alice.ID()))

	// records survive removal with the timestamp set
	records := alice.FriendshipRecords()
	require.Len(t, records, 1)
	require.NotNil(t, records[0].RemovedAt())
	assert.Equal(t, removedAt, *records[0].RemovedAt())

	events := bob.FlushEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeFriendshipRemoved, events[0].EventType())
}

func TestUser_RemoveFriendship_NoOpWhenAbsent(t *testing.T) {
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	bob.RemoveFriendship(alice, testTime)

	assert.Empty(t, bob.FlushEvents())
	assert.Empty(t, bob.FriendshipRecords())
}

func TestUser_RecreateFriendshipAfterRemoval_AppendsNewRecord(t *testing.T) {
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")

	require.NoError(t, alice.CreateFriendship(bob, testTime))
	alice.RemoveFriendship(bob, testTime.Add(time.Hour))
	require.NoError(t, alice.CreateFriendship(bob, testTime.Add(2*time.Hour)))

	assert.True(t, alice.IsFriendOf(bob.ID()))
	assert.Len(t, alice.Friendships(), 1)
	assert.Len(t, alice.FriendshipRecords(), 2, "revoked record is kept")
}

func TestUser_Remove_Idempotent(t *testing.T) {
	u := newTestUser(t, "alice")

	u.Remove(testTime)
	firstRemovedAt := *u.RemovedAt()

	u.Remove(testTime.Add(time.Hour))

	assert.Equal(t, firstRemovedAt, *u.RemovedAt(), "removal time must not be re-stamped")
	assert.Len(t, u.FlushEvents(), 1, "only the first removal emits an event")
}

func TestUser_RegisterAuthKey(t *testing.T) {
	u := newTestUser(t, "alice")
	keyID, err := valueobject.NewAuthKeyID("cred-1")
	require.NoError(t, err)

	require.NoError(t, u.RegisterAuthKey(keyID, []byte("pubkey"), 0, testTime))

	key := u.FindAuthKey(keyID)
	require.NotNil(t, key)
	assert.Equal(t, uint32(0), key.SignCount())

	err = u.RegisterAuthKey(keyID, []byte("other"), 0, testTime)
	assert.Error(t, err, "duplicate credential id is rejected")
}

func TestUser_IncreaseSignCount(t *testing.T) {
	u := newTestUser(t, "alice")
	keyID, err := valueobject.NewAuthKeyID("cred-1")
	require.NoError(t, err)
	require.NoError(t, u.RegisterAuthKey(keyID, []byte("pubkey"), 5, testTime))

	require.NoError(t, u.IncreaseSignCount(keyID, 6))
	assert.Equal(t, uint32(6), u.FindAuthKey(keyID).SignCount())

	assert.Error(t, u.IncreaseSignCount(keyID, 6), "replayed counter is rejected")
	assert.Error(t, u.IncreaseSignCount(keyID, 9), "skipped counter is rejected")
	assert.Equal(t, uint32(6), u.FindAuthKey(keyID).SignCount())

	unknown, err := valueobject.NewAuthKeyID("cred-2")
	require.NoError(t, err)
	assert.Error(t, u.IncreaseSignCount(unknown, 1))
}

func TestUser_IncreaseSignCount_SaturatedCounter(t *testing.T) {
	u := newTestUser(t, "alice")
	keyID, err := valueobject.NewAuthKeyID("cred-1")
	require.NoError(t, err)
	require.NoError(t, u.RegisterAuthKey(keyID, []byte("pubkey"), math.MaxUint32, testTime))

	assert.Error(t, u.IncreaseSignCount(keyID, 0), "wrapped counter is rejected")
	assert.Error(t, u.IncreaseSignCount(keyID, math.MaxUint32), "replayed counter is rejected")
	assert.Equal(t, uint32(math.MaxUint32), u.FindAuthKey(keyID).SignCount())
}
