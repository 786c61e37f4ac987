package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vuongngo/reactive-forum-api/internal/database"
	"github.com/vuongngo/reactive-forum-api/internal/domain"
	"github.com/vuongngo/reactive-forum-api/internal/repository"
	"github.com/vuongngo/reactive-forum-api/internal/security"
)

func setupTestDB(t *testing.T) *gorm.DB {
	cfg := database.GormConfig()
	cfg.DisableForeignKeyConstraintWhenMigrating = true

	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err, "failed to open database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type testEngine struct {
	db      *gorm.DB
	store   repository.Store
	threads ThreadService
	sink    *recordingSink
}

func newTestEngine(t *testing.T) *testEngine {
	db := setupTestDB(t)
	store := repository.NewStore(db)
	sink := &recordingSink{}
	return &testEngine{
		db:      db,
		store:   store,
		threads: NewThreadService(store, security.NewContentSanitizer(), sink, nil, zap.NewNop()),
		sink:    sink,
	}
}

func (e *testEngine) createUser(t *testing.T, username string) *domain.User {
	user := &domain.User{Username: username, Hash: "hash", Salt: "salt", Iterations: 1}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEngine) createTopic(t *testing.T, name string) *domain.Topic {
	topic := &domain.Topic{Name: name}
	require.NoError(t, e.db.Create(topic).Error)
	return topic
}

func (e *testEngine) reloadUser(t *testing.T, id interface{}) *domain.User {
	var user domain.User
	require.NoError(t, e.db.Where("id = ?", id).First(&user).Error)
	return &user
}
