package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
)

// LikeRepository defines data access for likes on threads, comments and replies
type LikeRepository interface {
	// Toggle flips the like of userID on the target and adjusts its like_count in the same transaction.
	// Returns true when the like was added.
	Toggle(ctx context.Context, target domain.LikeTarget, targetID, userID uuid.UUID) (bool, error)
	LikerIDs(ctx context.Context, target domain.LikeTarget, targetIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
}

// likeRepositoryImpl is the GORM implementation of LikeRepository
type likeRepositoryImpl struct {
	db *gorm.DB
}

// NewLikeRepository creates a new instance of LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepositoryImpl{db: db}
}

func (r *likeRepositoryImpl) Toggle(ctx context.Context, target domain.LikeTarget, targetID, userID uuid.UUID) (bool, error) {
	table := target.Table()
	if table == "" {
		return false, fmt.Errorf("unknown like target %q", target)
	}

	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed := tx.Where("target_type = ? AND target_id = ? AND user_id = ?", target, targetID, userID).
			Delete(&domain.Like{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected > 0 {
			return adjustLikeCount(tx, table, targetID, -1)
		}

		like := domain.Like{
			TargetType: target,
			TargetID:   targetID,
			UserID:     userID,
			CreatedAt:  time.Now().UTC(),
		}
		inserted := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if inserted.Error != nil {
			return inserted.Error
		}
		if inserted.RowsAffected == 0 {
			// a concurrent toggle by the same user already inserted the row
			return nil
		}
		liked = true
		return adjustLikeCount(tx, table, targetID, 1)
	})
	return liked, err
}

func adjustLikeCount(tx *gorm.DB, table string, id uuid.UUID, delta int64) error {
	result := tx.Table(table).Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta))
	return notFoundIfNoRows(result)
}

// LikerIDs returns, per target id, the ids of users who liked it in like order
func (r *likeRepositoryImpl) LikerIDs(ctx context.Context, target domain.LikeTarget, targetIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	likers := make(map[uuid.UUID][]uuid.UUID, len(targetIDs))
	if len(targetIDs) == 0 {
		return likers, nil
	}

	var likes []domain.Like
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id IN ?", target, targetIDs).
		Order("created_at ASC, user_id ASC").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	for _, like := range likes {
		likers[like.TargetID] = append(likers[like.TargetID], like.UserID)
	}
	return likers, nil
}
