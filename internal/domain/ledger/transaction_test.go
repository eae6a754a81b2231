package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/split/backend/internal/domain/shared/valueobject"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func userID(s string) valueobject.UserID {
	return valueobject.MustUserID(s)
}

func sek(amount string) valueobject.Money {
	return valueobject.MustMoney(amount, valueobject.MustCurrency("SEK"))
}

func newTestTransaction(t *testing.T, amount valueobject.Money, sender string, recipients ...string) *Transaction {
	t.Helper()
	ids := make([]valueobject.UserID, len(recipients))
	for i, r := range recipients {
		ids[i] = userID(r)
	}
	tx, err := NewTransaction("dinner", amount, userID(sender), ids, testTime)
	require.NoError(t, err)
	tx.FlushEvents()
	return tx
}

func TestNewTransaction(t *testing.T) {
	tx, err := NewTransaction("dinner", sek("100"), userID("alice"),
		[]valueobject.UserID{userID("bob"), userID("carol")}, testTime)
	require.NoError(t, err)

	assert.False(t, tx.ID().IsZero())
	assert.Equal(t, "dinner", tx.Description())
	assert.Equal(t, "alice", tx.SenderID().String())
	assert.Equal(t, []valueobject.UserID{userID("bob"), userID("carol")}, tx.RecipientIDs())
	assert.False(t, tx.IsRemoved())

	events := tx.FlushEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(*TransactionCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeTransactionCreated, created.EventType())
	assert.Equal(t, "alice", created.SenderID)
	assert.Equal(t, []string{"bob", "carol"}, created.RecipientIDs)
	assert.Equal(t, "SEK", created.Currency)
}

func TestNewTransaction_NoRecipients(t *testing.T) {
	_, err := NewTransaction("dinner", sek("100"), userID("alice"), nil, testTime)
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestNewTransaction_DeduplicatesRecipients(t *testing.T) {
	tx, err := NewTransaction("dinner", sek("100"), userID("alice"),
		[]valueobject.UserID{userID("bob"), userID("bob")}, testTime)
	require.NoError(t, err)

	assert.Equal(t, []valueobject.UserID{userID("bob")}, tx.RecipientIDs())
}

func TestTransaction_Involves(t *testing.T) {
	tx := newTestTransaction(t, sek("100"), "alice", "bob")

	assert.True(t, tx.Involves(userID("alice")))
	assert.True(t, tx.Involves(userID("bob")))
	assert.False(t, tx.Involves(userID("mallory")))
}

func TestTransaction_Debts_EqualShares(t *testing.T) {
	tx := newTestTransaction(t, sek("100"), "alice", "bob", "carol")

	debts, err := tx.Debts()
	require.NoError(t, err)
	require.Len(t, debts, 2)

	assert.Equal(t, userID("alice"), debts[0].From)
	assert.Equal(t, userID("bob"), debts[0].To)
	assert.True(t, debts[0].Amount.Amount().Equal(decimal.NewFromInt(50)))

	assert.Equal(t, userID("carol"), debts[1].To)
	assert.True(t, debts[1].Amount.Amount().Equal(decimal.NewFromInt(50)))
}

func TestTransaction_Debts_RemainderToEarliestRecipient(t *testing.T) {
	tx := newTestTransaction(t, sek("100"), "alice", "bob", "carol", "dave")

	debts, err := tx.Debts()
	require.NoError(t, err)
	require.Len(t, debts, 3)

	assert.True(t, debts[0].Amount.Amount().Equal(decimal.RequireFromString("33.34")))
	assert.True(t, debts[1].Amount.Amount().Equal(decimal.RequireFromString("33.33")))
	assert.True(t, debts[2].Amount.Amount().Equal(decimal.RequireFromString("33.33")))
}

func TestTransaction_Remove_Idempotent(t *testing.T) {
	tx := newTestTransaction(t, sek("100"), "alice", "bob")

	tx.Remove(testTime)
	firstRemovedAt := *tx.RemovedAt()

	tx.Remove(testTime.Add(time.Hour))

	assert.Equal(t, firstRemovedAt, *tx.RemovedAt())
	assert.Len(t, tx.FlushEvents(), 1, "only the first removal emits an event")
}
