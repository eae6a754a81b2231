package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/split/backend/internal/domain/ledger"
	"github.com/split/backend/internal/domain/shared"
	"github.com/split/backend/internal/domain/shared/valueobject"
)

func mustNewTransaction(t *testing.T, description, amount, currency, sender string, recipients []string, now time.Time) *ledger.Transaction {
	recipientIDs := make([]valueobject.UserID, len(recipients))
	for i, r := range recipients {
		recipientIDs[i] = valueobject.MustUserID(r)
	}
	tx, err := ledger.NewTransaction(
		description,
		valueobject.MustMoney(amount, valueobject.MustCurrency(currency)),
		valueobject.MustUserID(sender),
		recipientIDs,
		now,
	)
	require.NoError(t, err)
	return tx
}

func TestGormTransactionRepository_SaveAndFindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	tx := mustNewTransaction(t, "dinner", "100", "SEK", "alice", []string{"bob", "carol"}, now)
	require.NoError(t, repo.Save(ctx, tx))

	found, err := repo.FindByID(ctx, tx.ID())
	require.NoError(t, err)
	assert.Equal(t, "dinner", found.Description())
	assert.Equal(t, "alice", found.SenderID().String())
	assert.True(t, found.Amount().Amount().Equal(tx.Amount().Amount()))
	assert.Equal(t, "SEK", found.Amount().Currency().Code())

	// Recipient order decides where remainder cents land, so it has to
	// survive the round trip exactly.
	recipients := found.RecipientIDs()
	require.Len(t, recipients, 2)
	assert.Equal(t, "bob", recipients[0].String())
	assert.Equal(t, "carol", recipients[1].String())
}

func TestGormTransactionRepository_RemovedTransactionHiddenByDefault(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	tx := mustNewTransaction(t, "dinner", "100", "SEK", "alice", []string{"bob"}, now)
	tx.Remove(now)
	require.NoError(t, repo.Save(ctx, tx))

	_, err := repo.FindByID(ctx, tx.ID())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	found, err := repo.FindByIDIncludingRemoved(ctx, tx.ID())
	require.NoError(t, err)
	assert.True(t, found.IsRemoved())
}

func TestGormTransactionRepository_StreamInvolvingUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	asSender := mustNewTransaction(t, "first", "100", "SEK", "alice", []string{"bob"}, now)
	asRecipient := mustNewTransaction(t, "second", "60", "SEK", "bob", []string{"alice", "carol"}, now.Add(time.Hour))
	unrelated := mustNewTransaction(t, "other", "40", "SEK", "bob", []string{"carol"}, now.Add(2*time.Hour))
	removed := mustNewTransaction(t, "gone", "10", "SEK", "alice", []string{"bob"}, now.Add(3*time.Hour))
	removed.Remove(now.Add(4 * time.Hour))

	for _, tx := range []*ledger.Transaction{asSender, asRecipient, unrelated, removed} {
		require.NoError(t, repo.Save(ctx, tx))
	}

	var descriptions []string
	for tx, err := range repo.StreamInvolvingUser(ctx, valueobject.MustUserID("alice")) {
		require.NoError(t, err)
		descriptions = append(descriptions, tx.Description())
	}
	assert.Equal(t, []string{"first", "second"}, descriptions)
}

func TestGormRelationshipRepository_StreamRelatedUsers(t *testing.T) {
	db := setupTestDB(t)
	userRepo := NewGormUserRepository(db)
	txRepo := NewGormTransactionRepository(db)
	relRepo := NewGormRelationshipRepository(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	for i, id := range []string{"alice", "bob", "carol", "dave"} {
		u := mustNewUser(t, id, id, "+4670000000"+string(rune('1'+i)), now)
		require.NoError(t, userRepo.Save(ctx, u))
	}

	// bob is the earliest counterparty, carol the most recent; dave shares
	// no transaction with alice.
	require.NoError(t, txRepo.Save(ctx, mustNewTransaction(t, "old", "100", "SEK", "alice", []string{"bob"}, now)))
	require.NoError(t, txRepo.Save(ctx, mustNewTransaction(t, "new", "50", "SEK", "carol", []string{"alice"}, now.Add(time.Hour))))
	require.NoError(t, txRepo.Save(ctx, mustNewTransaction(t, "other", "30", "SEK", "dave", []string{"bob"}, now.Add(2*time.Hour))))

	var ids []string
	for u, err := range relRepo.StreamRelatedUsers(ctx, valueobject.MustUserID("alice")) {
		require.NoError(t, err)
		ids = append(ids, u.ID().String())
	}
	assert.Equal(t, []string{"carol", "bob"}, ids)
}

func TestGormRelationshipRepository_ExcludesRemovedUsers(t *testing.T) {
	db := setupTestDB(t)
	userRepo := NewGormUserRepository(db)
	txRepo := NewGormTransactionRepository(db)
	relRepo := NewGormRelationshipRepository(db)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	alice := mustNewUser(t, "alice", "Alice", "+46700000001", now)
	bob := mustNewUser(t, "bob", "Bob", "+46700000002", now)
	require.NoError(t, userRepo.Save(ctx, alice))
	require.NoError(t, userRepo.Save(ctx, bob))
	require.NoError(t, txRepo.Save(ctx, mustNewTransaction(t, "dinner", "100", "SEK", "alice", []string{"bob"}, now)))

	bob, err := userRepo.FindByID(ctx, valueobject.MustUserID("bob"))
	require.NoError(t, err)
	bob.Remove(now.Add(time.Hour))
	require.NoError(t, userRepo.Save(ctx, bob))

	var ids []string
	for u, err := range relRepo.StreamRelatedUsers(ctx, valueobject.MustUserID("alice")) {
		require.NoError(t, err)
		ids = append(ids, u.ID().String())
	}
	assert.Empty(t, ids)
}
