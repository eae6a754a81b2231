package ledger

import (
	"time"

	"github.com/split/backend/internal/domain/ledger"
)

// CreateTransactionRequest represents a request to record a shared expense
type CreateTransactionRequest struct {
	Description  string   `json:"description" binding:"max=500"`
	Amount       string   `json:"amount" binding:"required"`
	Currency     string   `json:"currency" binding:"required,len=3"`
	RecipientIDs []string `json:"recipient_ids" binding:"required,min=1"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID           string    `json:"id"`
	Description  string    `json:"description"`
	Amount       string    `json:"amount"`
	Currency     string    `json:"currency"`
	SenderID     string    `json:"sender_id"`
	RecipientIDs []string  `json:"recipient_ids"`
	CreatedAt    time.Time `json:"created_at"`
}

// BalanceResponse represents a net pairwise balance in API responses.
// From owes To the amount; the amount is never negative.
type BalanceResponse struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// ToTransactionResponse converts a transaction aggregate to a response DTO
func ToTransactionResponse(t *ledger.Transaction) TransactionResponse {
	recipients := t.RecipientIDs()
	ids := make([]string, len(recipients))
	for i, r := range recipients {
		ids[i] = r.String()
	}
	return TransactionResponse{
		ID:           t.ID().String(),
		Description:  t.Description(),
		Amount:       t.Amount().Amount().String(),
		Currency:     t.Amount().Currency().Code(),
		SenderID:     t.SenderID().String(),
		RecipientIDs: ids,
		CreatedAt:    t.CreatedAt(),
	}
}

// ToBalanceResponses converts netted balances to response DTOs
func ToBalanceResponses(balances []ledger.Balance) []BalanceResponse {
	out := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		out[i] = BalanceResponse{
			From:     b.From.String(),
			To:       b.To.String(),
			Amount:   b.Amount.Amount().String(),
			Currency: b.Amount.Currency().Code(),
		}
	}
	return out
}
