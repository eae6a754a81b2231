package ledger

import (
	"errors"
	"iter"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/split/backend/internal/domain/shared/valueobject"
)

func eur(amount string) valueobject.Money {
	return valueobject.MustMoney(amount, valueobject.MustCurrency("EUR"))
}

func txStream(txs ...*Transaction) iter.Seq2[*Transaction, error] {
	return func(yield func(*Transaction, error) bool) {
		for _, tx := range txs {
			if !yield(tx, nil) {
				return
			}
		}
	}
}

func requireBalance(t *testing.T, balances []Balance, from, to, amount, currency string) {
	t.Helper()
	for _, b := range balances {
		if b.From.String() == from && b.To.String() == to && b.Amount.Currency().Code() == currency {
			assert.True(t, b.Amount.Amount().Equal(decimal.RequireFromString(amount)),
				"expected %s owes %s %s %s, got %s", from, to, amount, currency, b.Amount)
			return
		}
	}
	t.Fatalf("no balance %s -> %s in %s among %v", from, to, currency, balances)
}

func TestNetBalances_SingleTransaction(t *testing.T) {
	tx := newTestTransaction(t, sek("100"), "alice", "bob")

	balances, err := NetBalances(userID("alice"), txStream(tx))
	require.NoError(t, err)

	require.Len(t, balances, 1)
	requireBalance(t, balances, "alice", "bob", "100", "SEK")
}

func TestNetBalances_SymmetricAcrossPerspectives(t *testing.T) {
	tx := newTestTransaction(t, sek("100"), "alice", "bob")

	fromAlice, err := NetBalances(userID("alice"), txStream(tx))
	require.NoError(t, err)
	fromBob, err := NetBalances(userID("bob"), txStream(tx))
	require.NoError(t, err)

	require.Len(t, fromAlice, 1)
	require.Len(t, fromBob, 1)
	assert.Equal(t, fromAlice[0].From, fromBob[0].From)
	assert.Equal(t, fromAlice[0].To, fromBob[0].To)
	assert.True(t, fromAlice[0].Amount.Equals(fromBob[0].Amount))
}

func TestNetBalances_OppositeDebtsNetAndFlip(t *testing.T) {
	aliceToBob := newTestTransaction(t, sek("100"), "alice", "bob")
	bobToAlice := newTestTransaction(t, sek("150"), "bob", "alice")

	balances, err := NetBalances(userID("alice"), txStream(aliceToBob, bobToAlice))
	require.NoError(t, err)

	require.Len(t, balances, 1)
	requireBalance(t, balances, "bob", "alice", "50", "SEK")
}

func TestNetBalances_SettledPairYieldsZeroBalance(t *testing.T) {
	aliceToBob := newTestTransaction(t, sek("100"), "alice", "bob")
	bobToAlice := newTestTransaction(t, sek("100"), "bob", "alice")

	balances, err := NetBalances(userID("alice"), txStream(aliceToBob, bobToAlice))
	require.NoError(t, err)

	require.Len(t, balances, 1, "a settled pair still yields a zero balance")
	assert.True(t, balances[0].Amount.IsZero())
}

func TestNetBalances_CurrenciesStaySeparate(t *testing.T) {
	inSEK := newTestTransaction(t, sek("100"), "alice", "bob")
	inEUR := newTestTransaction(t, eur("40"), "alice", "bob")

	balances, err := NetBalances(userID("alice"), txStream(inSEK, inEUR))
	require.NoError(t, err)

	require.Len(t, balances, 2)
	requireBalance(t, balances, "alice", "bob", "100", "SEK")
	requireBalance(t, balances, "alice", "bob", "40", "EUR")
}

func TestNetBalances_MultipleCounterparties(t *testing.T) {
	dinner := newTestTransaction(t, sek("90"), "alice", "bob", "carol", "dave")
	taxi := newTestTransaction(t, sek("60"), "bob", "alice")

	balances, err := NetBalances(userID("alice"), txStream(dinner, taxi))
	require.NoError(t, err)

	require.Len(t, balances, 3)
	// alice owes each dinner guest 30, bob's 60 swallows his share and flips
	requireBalance(t, balances, "bob", "alice", "30", "SEK")
	requireBalance(t, balances, "alice", "carol", "30", "SEK")
	requireBalance(t, balances, "alice", "dave", "30", "SEK")
}

func TestNetBalances_SenderShareIsDiscarded(t *testing.T) {
	// alice splits with herself included: her own share never becomes a balance
	tx := newTestTransaction(t, sek("100"), "alice", "alice", "bob")

	balances, err := NetBalances(userID("alice"), txStream(tx))
	require.NoError(t, err)

	require.Len(t, balances, 1)
	requireBalance(t, balances, "alice", "bob", "50", "SEK")
}

func TestNetBalances_DebtsBetweenOthersAreIgnored(t *testing.T) {
	// bob is a recipient; the share alice owes carol is between the two
	// of them and must not show up in bob's balances
	tx := newTestTransaction(t, sek("100"), "alice", "bob", "carol")

	balances, err := NetBalances(userID("bob"), txStream(tx))
	require.NoError(t, err)

	require.Len(t, balances, 1)
	requireBalance(t, balances, "alice", "bob", "50", "SEK")
}

func TestNetBalances_EmptyStream(t *testing.T) {
	balances, err := NetBalances(userID("alice"), txStream())
	require.NoError(t, err)
	assert.Empty(t, balances)
}

func TestNetBalances_PropagatesStreamError(t *testing.T) {
	streamErr := errors.New("storage unavailable")
	stream := func(yield func(*Transaction, error) bool) {
		yield(nil, streamErr)
	}

	_, err := NetBalances(userID("alice"), stream)
	assert.ErrorIs(t, err, streamErr)
}
