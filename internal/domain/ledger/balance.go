package ledger

import (
	"fmt"
	"iter"

	"github.com/shopspring/decimal"

	"github.com/split/backend/internal/domain/shared/valueobject"
)

// Debt is a single directed obligation: From owes To the given amount.
// Debts are the intermediate currency of the netting engine; they are
// derived from transactions and never stored.
type Debt struct {
	From   valueobject.UserID
	To     valueobject.UserID
	Amount valueobject.Money
}

// Balance is the net amount one user owes another in one currency. It is
// derived, never stored, and never negative: when netting would produce a
// negative amount the direction is flipped instead. A zero balance is a
// valid result and means the pair has settled up.
type Balance struct {
	From   valueobject.UserID
	To     valueobject.UserID
	Amount valueobject.Money
}

// String implements fmt.Stringer
func (b Balance) String() string {
	return fmt.Sprintf("%s owes %s %s", b.From, b.To, b.Amount)
}

type balanceKey struct {
	counterparty valueobject.UserID
	currency     string
}

// NetBalances folds a stream of transactions into the per-counterparty,
// per-currency net balances of one user. Each transaction is expanded into
// equal-share debts; debts not touching the user, including the sender's
// own share, are discarded. Within each (counterparty, currency) bucket
// the debts are summed with sign relative to the user, then the sign
// decides the direction of the emitted balance.
//
// The stream is consumed exactly once and only the running totals are
// held in memory, one per (counterparty, currency) pair.
func NetBalances(userID valueobject.UserID, transactions iter.Seq2[*Transaction, error]) ([]Balance, error) {
	// signed amount per bucket; positive means userID owes the counterparty
	totals := make(map[balanceKey]decimal.Decimal)
	order := make([]balanceKey, 0)

	for t, err := range transactions {
		if err != nil {
			return nil, fmt.Errorf("stream transactions: %w", err)
		}
		debts, err := t.Debts()
		if err != nil {
			return nil, fmt.Errorf("expand transaction %s: %w", t.ID(), err)
		}
		for _, debt := range debts {
			var counterparty valueobject.UserID
			var signed decimal.Decimal
			switch {
			case debt.From == userID && debt.To == userID:
				// the sender's own share nets out trivially
				continue
			case debt.From == userID:
				counterparty = debt.To
				signed = debt.Amount.Amount()
			case debt.To == userID:
				counterparty = debt.From
				signed = debt.Amount.Amount().Neg()
			default:
				// a debt between two other recipients of the same
				// transaction does not touch this user's balance
				continue
			}
			key := balanceKey{counterparty: counterparty, currency: debt.Amount.Currency().Code()}
			if _, seen := totals[key]; !seen {
				order = append(order, key)
			}
			totals[key] = totals[key].Add(signed)
		}
	}

	balances := make([]Balance, 0, len(order))
	for _, key := range order {
		total := totals[key]
		currency, err := valueobject.NewCurrency(key.currency)
		if err != nil {
			return nil, err
		}
		from, to := userID, key.counterparty
		if total.IsNegative() {
			from, to = to, from
			total = total.Neg()
		}
		amount, err := valueobject.NewMoney(total, currency)
		if err != nil {
			return nil, err
		}
		balances = append(balances, Balance{From: from, To: to, Amount: amount})
	}
	return balances, nil
}
