package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
	"github.com/vuongngo/reactive-forum-api/internal/dto"
	"github.com/vuongngo/reactive-forum-api/internal/metrics"
	"github.com/vuongngo/reactive-forum-api/internal/notify"
	"github.com/vuongngo/reactive-forum-api/internal/repository"
	"github.com/vuongngo/reactive-forum-api/internal/response"
	"github.com/vuongngo/reactive-forum-api/internal/security"
)

// ThreadService defines every operation on the thread aggregate.
// Mutations return the whole thread with authors resolved.
type ThreadService interface {
	Create(ctx context.Context, authorID uuid.UUID, req *dto.CreateThreadRequest) (*dto.ThreadResponse, error)
	Update(ctx context.Context, threadID uuid.UUID, req *dto.UpdateThreadRequest) (*dto.ThreadResponse, error)
	Remove(ctx context.Context, threadID uuid.UUID) error
	Like(ctx context.Context, userID, threadID uuid.UUID) (*dto.ThreadResponse, error)
	GetByID(ctx context.Context, threadID uuid.UUID) (*dto.ThreadResponse, error)
	List(ctx context.Context, opts domain.ListOptions) ([]*dto.ThreadResponse, error)

	CreateComment(ctx context.Context, userID, threadID uuid.UUID, req *dto.TextRequest) (*dto.ThreadResponse, error)
	UpdateComment(ctx context.Context, userID, threadID, commentID uuid.UUID, req *dto.TextRequest) (*dto.ThreadResponse, error)
	RemoveComment(ctx context.Context, userID, threadID, commentID uuid.UUID) (*dto.ThreadResponse, error)
	LikeComment(ctx context.Context, userID, threadID, commentID uuid.UUID) (*dto.ThreadResponse, error)

	CreateReply(ctx context.Context, userID, threadID, commentID uuid.UUID, req *dto.TextRequest) (*dto.ThreadResponse, error)
	UpdateReply(ctx context.Context, userID, threadID, commentID, replyID uuid.UUID, req *dto.TextRequest) (*dto.ThreadResponse, error)
	RemoveReply(ctx context.Context, userID, threadID, commentID, replyID uuid.UUID) (*dto.ThreadResponse, error)
	LikeReply(ctx context.Context, userID, threadID, commentID, replyID uuid.UUID) (*dto.ThreadResponse, error)
}

// threadServiceImpl is the implementation of ThreadService
type threadServiceImpl struct {
	store     repository.Store
	sanitizer security.ContentSanitizer
	sink      notify.Sink
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewThreadService creates a new instance of ThreadService
func NewThreadService(
	store repository.Store,
	sanitizer security.ContentSanitizer,
	sink notify.Sink,
	m *metrics.Metrics,
	logger *zap.Logger,
) ThreadService {
	if sink == nil {
		sink = notify.NoOp{}
	}
	return &threadServiceImpl{
		store:     store,
		sanitizer: sanitizer,
		sink:      sink,
		metrics:   m,
		logger:    logger,
	}
}

// Create creates a thread and credits the author with a post
func (s *threadServiceImpl) Create(ctx context.Context, authorID uuid.UUID, req *dto.CreateThreadRequest) (*dto.ThreadResponse, error) {
	title := s.sanitizer.SanitizeText(req.Title)
	body := s.sanitizer.SanitizeHTML(req.Body)
	if req.TopicID == uuid.Nil || title == "" || body == "" {
		return nil, response.NewValidationError("topicId, title and body are required", "")
	}

	thread := &domain.Thread{
		TopicID:  req.TopicID,
		AuthorID: authorID,
		Title:    title,
		Body:     body,
		Tags:     datatypes.JSONSlice[string](cleanTags(req.Tags)),
	}
	if req.CardImage != nil && req.CardImage.URL != "" {
		thread.CardImage = datatypes.NewJSONType(req.CardImage)
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		exists, err := tx.Topics().Exists(ctx, req.TopicID)
		if err != nil {
			return err
		}
		if !exists {
			return response.NewNotFoundError("Topic not found", "")
		}
		if err := tx.Threads().Create(ctx, thread); err != nil {
			return err
		}
		return adjustContributions(ctx, tx.Users(), authorID, domain.ContributionPosts, 1)
	})
	if err != nil {
		return nil, translateError(err, "Author not found", "Failed to create thread")
	}

	s.metrics.IncrementThreadCreated()
	s.logger.Info("Thread created",
		zap.String("thread_id", thread.ID.String()),
		zap.String("author_id", authorID.String()))

	return s.respond(ctx, thread.ID, notify.Event{Kind: notify.KindCreate, Entity: notify.EntityThread})
}

// Update applies the whitelisted, non-empty fields of req
func (s *threadServiceImpl) Update(ctx context.Context, threadID uuid.UUID, req *dto.UpdateThreadRequest) (*dto.ThreadResponse, error) {
	if _, err := s.store.Threads().FindHeader(ctx, threadID); err != nil {
		return nil, translateError(err, "Thread not found", "Failed to fetch thread")
	}

	fields := make(map[string]interface{})
	if req.TopicID != nil && *req.TopicID != uuid.Nil {
		exists, err := s.store.Topics().Exists(ctx, *req.TopicID)
		if err != nil {
			return nil, response.NewInternalError("Failed to verify topic", err.Error())
		}
		if !exists {
			return nil, response.NewNotFoundError("Topic not found", "")
		}
		fields["topic_id"] = *req.TopicID
	}
	if title := s.sanitizer.SanitizeText(req.Title); title != "" {
		fields["title"] = title
	}
	if body := s.sanitizer.SanitizeHTML(req.Body); body != "" {
		fields["body"] = body
	}
	if req.CardImage != nil && req.CardImage.URL != "" {
		fields["card_image"] = datatypes.NewJSONType(req.CardImage)
	}
	if tags := cleanTags(req.Tags); len(tags) > 0 {
		fields["tags"] = datatypes.JSONSlice[string](tags)
	}

	if len(fields) == 0 {
		return s.GetByID(ctx, threadID)
	}
	if err := s.store.Threads().UpdateFields(ctx, threadID, fields); err != nil {
		return nil, translateError(err, "Thread not found", "Failed to update thread")
	}

	return s.respond(ctx, threadID, notify.Event{Kind: notify.KindUpdate, Entity: notify.EntityThread})
}

// Remove deletes the thread with its comments, replies and likes
// and takes the removed contributions back from every author
func (s *threadServiceImpl) Remove(ctx context.Context, threadID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		thread, err := tx.Threads().FindHeader(ctx, threadID)
		if err != nil {
			return err
		}
		commentCounts, err := tx.Threads().CommentCountsByAuthor(ctx, threadID)
		if err != nil {
			return err
		}
		replyCounts, err := tx.Threads().ReplyCountsByAuthor(ctx, threadID, nil)
		if err != nil {
			return err
		}

		if err := tx.Threads().Delete(ctx, threadID); err != nil {
			return err
		}

		if err := revokeContributions(ctx, tx.Users(), map[uuid.UUID]int64{thread.AuthorID: 1}, domain.ContributionPosts); err != nil {
			return err
		}
		if err := revokeContributions(ctx, tx.Users(), commentCounts, domain.ContributionComments); err != nil {
			return err
		}
		return revokeContributions(ctx, tx.Users(), replyCounts, domain.ContributionReplies)
	})
	if err != nil {
		return translateError(err, "Thread not found", "Failed to delete thread")
	}

	s.logger.Info("Thread removed", zap.String("thread_id", threadID.String()))
	s.publish(ctx, notify.Event{Kind: notify.KindRemove, Entity: notify.EntityThread, ThreadID: threadID})
	return nil
}

// Like toggles the caller's like on the thread
func (s *threadServiceImpl) Like(ctx context.Context, userID, threadID uuid.UUID) (*dto.ThreadResponse, error) {
	liked, err := s.store.Likes().Toggle(ctx, domain.LikeTargetThread, threadID, userID)
	if err != nil {
		return nil, translateError(err, "Thread not found", "Failed to toggle like")
	}
	s.metrics.RecordLikeToggle(string(domain.LikeTargetThread), liked)

	return s.respond(ctx, threadID, notify.Event{Kind: notify.KindUpdate, Entity: notify.EntityThread})
}

// GetByID returns the thread with its comments and replies
func (s *threadServiceImpl) GetByID(ctx context.Context, threadID uuid.UUID) (*dto.ThreadResponse, error) {
	thread, err := s.store.Threads().FindByID(ctx, threadID)
	if err != nil {
		return nil, translateError(err, "Thread not found", "Failed to fetch thread")
	}

	responses, err := s.toThreadResponses(ctx, []*domain.Thread{thread})
	if err != nil {
		return nil, response.NewInternalError("Failed to resolve thread", err.Error())
	}
	return responses[0], nil
}

// List returns a filtered page of threads, newest first
func (s *threadServiceImpl) List(ctx context.Context, opts domain.ListOptions) ([]*dto.ThreadResponse, error) {
	threads, err := s.store.Threads().List(ctx, opts)
	if err != nil {
		return nil, translateError(err, "Thread not found", "Failed to list threads")
	}

	responses, err := s.toThreadResponses(ctx, threads)
	if err != nil {
		return nil, response.NewInternalError("Failed to resolve threads", err.Error())
	}
	return responses, nil
}

// respond loads the thread after a committed mutation and publishes event with it as payload
func (s *threadServiceImpl) respond(ctx context.Context, threadID uuid.UUID, event notify.Event) (*dto.ThreadResponse, error) {
	thread, err := s.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	event.ThreadID = threadID
	event.Payload = thread
	s.publish(ctx, event)
	return thread, nil
}

// publish hands event to the sink. Delivery failures never fail the mutation.
func (s *threadServiceImpl) publish(ctx context.Context, event notify.Event) {
	if err := s.sink.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("event", event.Name()),
			zap.String("thread_id", event.ThreadID.String()),
			zap.Error(err))
	}
}

// adjustContributions moves one counter and the total by delta
func adjustContributions(ctx context.Context, users repository.UserRepository, userID uuid.UUID, field domain.ContributionField, delta int64) error {
	if err := users.AdjustContribution(ctx, userID, field, delta); err != nil {
		return err
	}
	return users.AdjustContribution(ctx, userID, domain.ContributionTotal, delta)
}

// revokeContributions subtracts counts per author. Authors that no longer exist are skipped.
func revokeContributions(ctx context.Context, users repository.UserRepository, counts map[uuid.UUID]int64, field domain.ContributionField) error {
	for userID, n := range counts {
		if n == 0 {
			continue
		}
		err := adjustContributions(ctx, users, userID, field, -n)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
