package job

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vuongngo/reactive-forum-api/internal/repository"
	"github.com/vuongngo/reactive-forum-api/internal/service"
)

const (
	sessionPageSize   = 200
	sessionJobTimeout = 2 * time.Minute
)

// SessionParser verifies a stored session token
type SessionParser interface {
	Parse(token string) (uuid.UUID, *service.SessionClaims, error)
}

// SessionCleanupJob clears stored session tokens that are expired or no longer verify
type SessionCleanupJob struct {
	userRepo repository.UserRepository
	tokens   SessionParser
	logger   *zap.Logger
}

// NewSessionCleanupJob creates a new SessionCleanupJob
func NewSessionCleanupJob(userRepo repository.UserRepository, tokens SessionParser, logger *zap.Logger) *SessionCleanupJob {
	return &SessionCleanupJob{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Run implements cron.Job
func (j *SessionCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), sessionJobTimeout)
	defer cancel()

	cleared, err := j.Cleanup(ctx)
	if err != nil {
		j.logger.Error("Session cleanup failed", zap.Int("cleared", cleared), zap.Error(err))
		return
	}
	j.logger.Info("Session cleanup completed", zap.Int("cleared", cleared))
}

// Cleanup pages through every user holding a token and returns how many tokens it cleared
func (j *SessionCleanupJob) Cleanup(ctx context.Context) (int, error) {
	cleared := 0
	after := uuid.Nil

	for {
		users, err := j.userRepo.FindWithToken(ctx, after, sessionPageSize)
		if err != nil {
			return cleared, err
		}

		for _, user := range users {
			if user.Token == nil {
				continue
			}
			userID, _, err := j.tokens.Parse(*user.Token)
			if err == nil && userID == user.ID {
				continue
			}

			// the user may have signed in again since the page was read
			ok, err := j.userRepo.ClearTokenIf(ctx, user.ID, *user.Token)
			if err != nil {
				return cleared, err
			}
			if ok {
				cleared++
				j.logger.Debug("Session token cleared", zap.String("user_id", user.ID.String()))
			}
		}

		if len(users) < sessionPageSize {
			return cleared, nil
		}
		after = users[len(users)-1].ID
	}
}
