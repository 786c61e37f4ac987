package job

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vuongngo/reactive-forum-api/internal/database"
	"github.com/vuongngo/reactive-forum-api/internal/domain"
	"github.com/vuongngo/reactive-forum-api/internal/repository"
	"github.com/vuongngo/reactive-forum-api/internal/service"
)

// MockSessionParser is a mock implementation of SessionParser
type MockSessionParser struct {
	mock.Mock
}

func (m *MockSessionParser) Parse(token string) (uuid.UUID, *service.SessionClaims, error) {
	args := m.Called(token)
	claims, _ := args.Get(1).(*service.SessionClaims)
	return args.Get(0).(uuid.UUID), claims, args.Error(2)
}

func setupTestDB(t *testing.T) *gorm.DB {
	cfg := database.GormConfig()
	cfg.DisableForeignKeyConstraintWhenMigrating = true

	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, token *string) *domain.User {
	user := &domain.User{Username: username, Hash: "hash", Salt: "salt", Iterations: 1, Token: token}
	require.NoError(t, db.Create(user).Error)
	return user
}

func strPtr(s string) *string { return &s }

func TestSessionCleanupJob_Cleanup(t *testing.T) {
	db := setupTestDB(t)
	valid := createUser(t, db, "valid", strPtr("good"))
	expired := createUser(t, db, "expired", strPtr("expired"))
	stolen := createUser(t, db, "stolen", strPtr("other-user"))
	signedOut := createUser(t, db, "signed-out", nil)

	parser := new(MockSessionParser)
	parser.On("Parse", "good").Return(valid.ID, &service.SessionClaims{}, nil)
	parser.On("Parse", "expired").Return(uuid.Nil, nil, jwt.ErrTokenExpired)
	parser.On("Parse", "other-user").Return(uuid.New(), &service.SessionClaims{}, nil)

	job := NewSessionCleanupJob(repository.NewUserRepository(db), parser, zap.NewNop())

	cleared, err := job.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)

	reload := func(id uuid.UUID) *domain.User {
		var user domain.User
		require.NoError(t, db.Where("id = ?", id).First(&user).Error)
		return &user
	}
	assert.Equal(t, "good", *reload(valid.ID).Token)
	assert.Nil(t, reload(expired.ID).Token)
	assert.Nil(t, reload(stolen.ID).Token)
	assert.Nil(t, reload(signedOut.ID).Token)
	parser.AssertNumberOfCalls(t, "Parse", 3)

	// a second pass has nothing left to clear
	cleared, err = job.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cleared)
}

func TestScheduler_RegisterAndRun(t *testing.T) {
	scheduler := NewScheduler(zap.NewNop())

	assert.Error(t, scheduler.Register("not a schedule", &countingJob{}))

	job := &countingJob{runs: make(chan struct{}, 1)}
	require.NoError(t, scheduler.Register("* * * * * *", job))
	scheduler.Start()
	defer scheduler.Stop()

	select {
	case <-job.runs:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestScheduler_RecoversFromPanics(t *testing.T) {
	wrapped := recoverWrapper(zap.NewNop())(panickingJob{})
	assert.NotPanics(t, wrapped.Run)
}

type countingJob struct {
	runs chan struct{}
}

func (j *countingJob) Run() {
	select {
	case j.runs <- struct{}{}:
	default:
	}
}

type panickingJob struct{}

func (panickingJob) Run() { panic("boom") }
