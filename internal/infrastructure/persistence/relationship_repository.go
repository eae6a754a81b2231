package persistence

import (
	"context"
	"iter"

	"gorm.io/gorm"

	"github.com/split/backend/internal/domain/shared/valueobject"
	"github.com/split/backend/internal/domain/user"
)

// GormRelationshipRepository answers the associates view from the ledger:
// everyone who shares a transaction with a user, most recent shared
// transaction first, deduplicated, excluding removed users and the user
// themselves.
type GormRelationshipRepository struct {
	db       *gorm.DB
	userRepo *GormUserRepository
}

// NewGormRelationshipRepository creates a new GormRelationshipRepository
func NewGormRelationshipRepository(db *gorm.DB) *GormRelationshipRepository {
	return &GormRelationshipRepository{db: db, userRepo: NewGormUserRepository(db)}
}

// relatedUserRow is the projection produced by the counterparty query
type relatedUserRow struct {
	UserID string
}

// StreamRelatedUsers lazily yields the users related to the given user
// through shared transactions, ordered by most recent shared transaction.
func (r *GormRelationshipRepository) StreamRelatedUsers(ctx context.Context, id valueobject.UserID) iter.Seq2[*user.User, error] {
	const query = `
		WITH involved AS (
			SELECT t.id, t.created_at
			FROM transactions t
			WHERE t.removed_at IS NULL
			  AND (t.sender_id = @uid OR EXISTS (
					SELECT 1 FROM transaction_recipients tr
					WHERE tr.transaction_id = t.id AND tr.recipient_id = @uid))
		), participants AS (
			SELECT t.sender_id AS user_id, i.created_at
			FROM involved i JOIN transactions t ON t.id = i.id
			UNION ALL
			SELECT tr.recipient_id AS user_id, i.created_at
			FROM involved i JOIN transaction_recipients tr ON tr.transaction_id = i.id
		)
		SELECT p.user_id
		FROM participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id <> @uid AND u.removed_at IS NULL
		GROUP BY p.user_id
		ORDER BY MAX(p.created_at) DESC`

	return func(yield func(*user.User, error) bool) {
		var rows []relatedUserRow
		if err := r.db.WithContext(ctx).
			Raw(query, map[string]interface{}{"uid": id.String()}).
			Scan(&rows).Error; err != nil {
			yield(nil, err)
			return
		}

		for _, row := range rows {
			relatedID, err := valueobject.NewUserID(row.UserID)
			if err != nil {
				yield(nil, err)
				return
			}
			u, err := r.userRepo.FindByID(ctx, relatedID)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(u, nil) {
				return
			}
		}
	}
}

// Ensure GormRelationshipRepository implements the RelationshipRepository port
var _ user.RelationshipRepository = (*GormRelationshipRepository)(nil)
