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

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
	List(ctx context.Context, opts domain.ListOptions) ([]*domain.User, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	SetToken(ctx context.Context, id uuid.UUID, token *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustContribution(ctx context.Context, id uuid.UUID, field domain.ContributionField, delta int64) error
	ToggleFlag(ctx context.Context, userID, threadID uuid.UUID) (bool, error)
	ListFlags(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	FindWithToken(ctx context.Context, afterID uuid.UUID, limit int) ([]*domain.User, error)
	ClearTokenIf(ctx context.Context, id uuid.UUID, token string) (bool, error)
}

// userRepositoryImpl is the GORM implementation of UserRepository
type userRepositoryImpl struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepositoryImpl{db: db}
}

func (r *userRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs returns the users that exist among ids, in no particular order
func (r *userRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	var users []*domain.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepositoryImpl) List(ctx context.Context, opts domain.ListOptions) ([]*domain.User, error) {
	query, err := applyListOptions(r.db.WithContext(ctx).Model(&domain.User{}), opts)
	if err != nil {
		return nil, err
	}

	var users []*domain.User
	if err := query.Order("created_at ASC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateFields applies a column map to one user; gorm.ErrRecordNotFound when no row matched
func (r *userRepositoryImpl) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	return notFoundIfNoRows(result)
}

func (r *userRepositoryImpl) SetToken(ctx context.Context, id uuid.UUID, token *string) error {
	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("token", token)
	return notFoundIfNoRows(result)
}

// Delete removes the user and its flags
func (r *userRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&domain.UserFlag{}).Error; err != nil {
			return err
		}
		return notFoundIfNoRows(tx.Where("id = ?", id).Delete(&domain.User{}))
	})
}

// AdjustContribution adds delta to one profile counter in a single UPDATE
func (r *userRepositoryImpl) AdjustContribution(ctx context.Context, id uuid.UUID, field domain.ContributionField, delta int64) error {
	if !field.IsValid() {
		return fmt.Errorf("unknown contribution field %q", field)
	}
	column := field.Column()
	result := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	return notFoundIfNoRows(result)
}

// ToggleFlag removes the flag when present, otherwise adds it. Returns whether the thread is now flagged.
func (r *userRepositoryImpl) ToggleFlag(ctx context.Context, userID, threadID uuid.UUID) (bool, error) {
	flagged := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND thread_id = ?", userID, threadID).Delete(&domain.UserFlag{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		flag := domain.UserFlag{UserID: userID, ThreadID: threadID, CreatedAt: time.Now().UTC()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&flag).Error; err != nil {
			return err
		}
		flagged = true
		return nil
	})
	return flagged, err
}

func (r *userRepositoryImpl) ListFlags(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.UserFlag{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("thread_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindWithToken returns up to limit users holding a session token, keyset-paged by id
func (r *userRepositoryImpl) FindWithToken(ctx context.Context, afterID uuid.UUID, limit int) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Where("token IS NOT NULL AND token <> ''").
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ClearTokenIf clears the session token only while it still equals token
func (r *userRepositoryImpl) ClearTokenIf(ctx context.Context, id uuid.UUID, token string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND token = ?", id, token).
		Update("token", nil)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
