package persistence

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"gorm.io/gorm"

	"github.com/split/backend/internal/domain/shared"
	"github.com/split/backend/internal/domain/shared/valueobject"
	"github.com/split/backend/internal/domain/user"
	"github.com/split/backend/internal/infrastructure/persistence/models"
)

// streamBatchSize is the page size used when lazily streaming aggregates.
const streamBatchSize = 200

// errStopIteration aborts a batched query when the consumer stops pulling.
var errStopIteration = errors.New("stop iteration")

// GormUserRepository implements the user Repository using GORM
type GormUserRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormUserRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Save persists the aggregate and its pending events in one transaction.
// Friendship and auth key rows are rewritten from the aggregate state, so
// the row set always mirrors the aggregate's record list.
func (r *GormUserRepository) Save(ctx context.Context, u *user.User) error {
	model := models.UserModelFromDomain(u)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Friendships", "AuthKeys").Save(&models.UserModel{
			ID:          model.ID,
			DisplayName: model.DisplayName,
			PhoneNumber: model.PhoneNumber,
			CreatedAt:   model.CreatedAt,
			RemovedAt:   model.RemovedAt,
		}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", model.ID).Delete(&models.FriendshipModel{}).Error; err != nil {
			return err
		}
		if len(model.Friendships) > 0 {
			if err := tx.Create(model.Friendships).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", model.ID).Delete(&models.AuthKeyModel{}).Error; err != nil {
			return err
		}
		if len(model.AuthKeys) > 0 {
			if err := tx.Create(model.AuthKeys).Error; err != nil {
				return err
			}
		}

		// Drain only after the row writes succeed so a failed save keeps
		// the events buffered for a retry with the same aggregate.
		events := u.FlushEvents()
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
}

// FindByID finds an active user by id
func (r *GormUserRepository) FindByID(ctx context.Context, id valueobject.UserID) (*user.User, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Where("id = ? AND removed_at IS NULL", id.String()))
}

// FindByIDIncludingRemoved finds a user by id regardless of removal state
func (r *GormUserRepository) FindByIDIncludingRemoved(ctx context.Context, id valueobject.UserID) (*user.User, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Where("id = ?", id.String()))
}

// FindByPhoneNumber finds an active user by phone number
func (r *GormUserRepository) FindByPhoneNumber(ctx context.Context, phone valueobject.PhoneNumber) (*user.User, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Where("phone_number = ? AND removed_at IS NULL", phone.String()))
}

func (r *GormUserRepository) findOne(ctx context.Context, query *gorm.DB) (*user.User, error) {
	var model models.UserModel
	if err := preloadUserChildren(query).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByIDs finds the active users among the given ids, keyed by id.
// Missing or removed ids are simply absent from the result.
func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []valueobject.UserID) (map[valueobject.UserID]*user.User, error) {
	result := make(map[valueobject.UserID]*user.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rawIDs := make([]string, len(ids))
	for i, id := range ids {
		rawIDs[i] = id.String()
	}

	var userModels []models.UserModel
	if err := preloadUserChildren(r.db.WithContext(ctx)).
		Where("id IN ? AND removed_at IS NULL", rawIDs).
		Find(&userModels).Error; err != nil {
		return nil, err
	}

	for i := range userModels {
		u, err := userModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		result[u.ID()] = u
	}
	return result, nil
}

// StreamAll lazily yields all active users, batch loaded under the hood
func (r *GormUserRepository) StreamAll(ctx context.Context) iter.Seq2[*user.User, error] {
	return func(yield func(*user.User, error) bool) {
		var batch []models.UserModel
		// FindInBatches orders and pages by primary key, so the stream
		// comes out in id order.
		result := preloadUserChildren(r.db.WithContext(ctx)).
			Where("removed_at IS NULL").
			FindInBatches(&batch, streamBatchSize, func(_ *gorm.DB, _ int) error {
				for i := range batch {
					u, err := batch[i].ToDomain()
					if err != nil {
						return err
					}
					if !yield(u, nil) {
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

// preloadUserChildren loads friendship and auth key rows in record order
func preloadUserChildren(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Friendships", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("AuthKeys", func(db *gorm.DB) *gorm.DB {
			return db.Order("registered_at ASC, key_id ASC")
		})
}

// Ensure GormUserRepository implements the user Repository port
var _ user.Repository = (*GormUserRepository)(nil)
