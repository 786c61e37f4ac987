package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories of one connection or one transaction
type Store interface {
	Users() UserRepository
	Topics() TopicRepository
	Threads() ThreadRepository
	Likes() LikeRepository

	// Transaction runs fn against a store bound to a single database transaction.
	// Returning an error from fn rolls the transaction back.
	Transaction(ctx context.Context, fn func(store Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a Store over db
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository     { return NewUserRepository(s.db) }
func (s *gormStore) Topics() TopicRepository   { return NewTopicRepository(s.db) }
func (s *gormStore) Threads() ThreadRepository { return NewThreadRepository(s.db) }
func (s *gormStore) Likes() LikeRepository     { return NewLikeRepository(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(store Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
