package persistence

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"gorm.io/gorm"

	"github.com/split/backend/internal/domain/ledger"
	"github.com/split/backend/internal/domain/shared"
	"github.com/split/backend/internal/domain/shared/valueobject"
	"github.com/split/backend/internal/infrastructure/persistence/models"
)

// GormTransactionRepository implements the ledger Repository using GORM
type GormTransactionRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormTransactionRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Save persists the aggregate and its pending events in one transaction
func (r *GormTransactionRepository) Save(ctx context.Context, t *ledger.Transaction) error {
	model := models.TransactionModelFromDomain(t)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Recipients").Save(&models.TransactionModel{
			ID:          model.ID,
			Description: model.Description,
			Amount:      model.Amount,
			Currency:    model.Currency,
			SenderID:    model.SenderID,
			CreatedAt:   model.CreatedAt,
			RemovedAt:   model.RemovedAt,
		}).Error; err != nil {
			return err
		}

		if err := tx.Where("transaction_id = ?", model.ID).Delete(&models.TransactionRecipientModel{}).Error; err != nil {
			return err
		}
		if err := tx.Create(model.Recipients).Error; err != nil {
			return err
		}

		// Drain only after the row writes succeed so a failed save keeps
		// the events buffered for a retry with the same aggregate.
		events := t.FlushEvents()
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
}

// FindByID finds an active transaction by id
func (r *GormTransactionRepository) FindByID(ctx context.Context, id valueobject.TransactionID) (*ledger.Transaction, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Where("id = ? AND removed_at IS NULL", id.String()))
}

// FindByIDIncludingRemoved finds a transaction by id regardless of removal state
func (r *GormTransactionRepository) FindByIDIncludingRemoved(ctx context.Context, id valueobject.TransactionID) (*ledger.Transaction, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Where("id = ?", id.String()))
}

func (r *GormTransactionRepository) findOne(ctx context.Context, query *gorm.DB) (*ledger.Transaction, error) {
	var model models.TransactionModel
	if err := preloadRecipients(query).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// StreamInvolvingUser lazily yields the active transactions where the user
// is the sender or a recipient, oldest first
func (r *GormTransactionRepository) StreamInvolvingUser(ctx context.Context, id valueobject.UserID) iter.Seq2[*ledger.Transaction, error] {
	return func(yield func(*ledger.Transaction, error) bool) {
		var batch []models.TransactionModel
		// FindInBatches orders and pages by primary key. Transaction ids
		// are UUIDv7, so primary key order is creation order.
		result := preloadRecipients(r.db.WithContext(ctx)).
			Where("removed_at IS NULL").
			Where("sender_id = ? OR id IN (SELECT transaction_id FROM transaction_recipients WHERE recipient_id = ?)",
				id.String(), id.String()).
			FindInBatches(&batch, streamBatchSize, func(_ *gorm.DB, _ int) error {
				for i := range batch {
					t, err := batch[i].ToDomain()
					if err != nil {
						return err
					}
					if !yield(t, nil) {
						return errStopIteration
					}
				}
				return nil
			})
		if result.Error != nil && !errors.Is(result.Error, errStopIteration) {
			yield(nil, result.Error)
		}
	}
}

// preloadRecipients loads recipient rows in insertion order
func preloadRecipients(query *gorm.DB) *gorm.DB {
	return query.Preload("Recipients", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// Ensure GormTransactionRepository implements the ledger Repository port
var _ ledger.Repository = (*GormTransactionRepository)(nil)
