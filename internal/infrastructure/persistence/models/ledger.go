package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/split/backend/internal/domain/ledger"
	"github.com/split/backend/internal/domain/shared"
	"github.com/split/backend/internal/domain/shared/valueobject"
)

// TransactionModel is the persistence model for the Transaction aggregate root.
type TransactionModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Description string          `gorm:"type:varchar(500)"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null"`
	SenderID    string          `gorm:"type:varchar(100);not null;index"`
	CreatedAt   time.Time       `gorm:"not null;index"`
	RemovedAt   *time.Time      `gorm:"index"`

	Recipients []TransactionRecipientModel `gorm:"foreignKey:TransactionID;references:ID"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// TransactionRecipientModel is one recipient of a transaction. Position
// preserves insertion order, which decides where remainder cents land.
type TransactionRecipientModel struct {
	TransactionID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position      int       `gorm:"primaryKey;autoIncrement:false"`
	RecipientID   string    `gorm:"type:varchar(100);not null;index"`
}

// TableName returns the table name for GORM
func (TransactionRecipientModel) TableName() string {
	return "transaction_recipients"
}

// ToDomain converts the persistence model to a domain Transaction aggregate.
// Recipient rows must already be ordered by position.
func (m *TransactionModel) ToDomain() (*ledger.Transaction, error) {
	id, err := valueobject.ParseTransactionID(m.ID.String())
	if err != nil {
		return nil, fmt.Errorf("corrupt transaction row %q: %w", m.ID, err)
	}
	currency, err := valueobject.NewCurrency(m.Currency)
	if err != nil {
		return nil, fmt.Errorf("corrupt currency for transaction %q: %w", m.ID, err)
	}
	amount, err := valueobject.NewMoney(m.Amount, currency)
	if err != nil {
		return nil, fmt.Errorf("corrupt amount for transaction %q: %w", m.ID, err)
	}
	senderID, err := valueobject.NewUserID(m.SenderID)
	if err != nil {
		return nil, fmt.Errorf("corrupt sender for transaction %q: %w", m.ID, err)
	}

	recipientIDs := make([]valueobject.UserID, 0, len(m.Recipients))
	for _, r := range m.Recipients {
		recipientID, err := valueobject.NewUserID(r.RecipientID)
		if err != nil {
			return nil, fmt.Errorf("corrupt recipient for transaction %q: %w", m.ID, err)
		}
		recipientIDs = append(recipientIDs, recipientID)
	}
	recipients, err := shared.NewNonEmptySet(recipientIDs...)
	if err != nil {
		return nil, fmt.Errorf("transaction %q has no recipients: %w", m.ID, err)
	}

	return ledger.ReconstituteTransaction(id, m.Description, amount, senderID, recipients, m.CreatedAt, m.RemovedAt), nil
}

// FromDomain populates the persistence model from a domain Transaction aggregate.
func (m *TransactionModel) FromDomain(t *ledger.Transaction) {
	m.ID = uuid.MustParse(t.ID().String())
	m.Description = t.Description()
	m.Amount = t.Amount().Amount()
	m.Currency = t.Amount().Currency().Code()
	m.SenderID = t.SenderID().String()
	m.CreatedAt = t.CreatedAt()
	m.RemovedAt = t.RemovedAt()

	recipients := t.RecipientIDs()
	m.Recipients = make([]TransactionRecipientModel, len(recipients))
	for i, r := range recipients {
		m.Recipients[i] = TransactionRecipientModel{
			TransactionID: m.ID,
			Position:      i,
			RecipientID:   r.String(),
		}
	}
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction aggregate.
func TransactionModelFromDomain(t *ledger.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}
