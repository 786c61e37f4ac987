package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
)

// TopicRepository defines the interface for topic data access
type TopicRepository interface {
	Create(ctx context.Context, topic *domain.Topic) error
	CreateBatch(ctx context.Context, topics []*domain.Topic) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error)
	FindByNames(ctx context.Context, names []string) ([]*domain.Topic, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListBefore(ctx context.Context, before time.Time, limit int) ([]*domain.Topic, error)
}

// topicRepositoryImpl is the GORM implementation of TopicRepository
type topicRepositoryImpl struct {
	db *gorm.DB
}

// NewTopicRepository creates a new instance of TopicRepository
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepositoryImpl{db: db}
}

func (r *topicRepositoryImpl) Create(ctx context.Context, topic *domain.Topic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

// CreateBatch inserts all topics in one statement; either all rows land or none do
func (r *topicRepositoryImpl) CreateBatch(ctx context.Context, topics []*domain.Topic) error {
	if len(topics) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&topics).Error
	})
}

func (r *topicRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	var topic domain.Topic
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&topic).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepositoryImpl) FindByNames(ctx context.Context, names []string) ([]*domain.Topic, error) {
	var topics []*domain.Topic
	if len(names) == 0 {
		return topics, nil
	}
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepositoryImpl) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Topic{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *topicRepositoryImpl) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	result := r.db.WithContext(ctx).Model(&domain.Topic{}).Where("id = ?", id).Update("name", name)
	return notFoundIfNoRows(result)
}

func (r *topicRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return notFoundIfNoRows(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Topic{}))
}

// ListBefore returns topics created strictly before the bound, newest first
func (r *topicRepositoryImpl) ListBefore(ctx context.Context, before time.Time, limit int) ([]*domain.Topic, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var topics []*domain.Topic
	err := r.db.WithContext(ctx).
		Where("created_at < ?", before.UTC()).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&topics).Error
	if err != nil {
		return nil, err
	}
	return topics, nil
}
