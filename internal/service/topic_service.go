package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
	"github.com/vuongngo/reactive-forum-api/internal/dto"
	"github.com/vuongngo/reactive-forum-api/internal/repository"
	"github.com/vuongngo/reactive-forum-api/internal/response"
)

// TopicService defines the interface for topic business logic
type TopicService interface {
	Create(ctx context.Context, req *dto.CreateTopicRequest) (*dto.TopicResponse, error)
	CreateBatch(ctx context.Context, req *dto.CreateTopicsRequest) ([]*dto.TopicResponse, error)
	Update(ctx context.Context, topicID uuid.UUID, req *dto.UpdateTopicRequest) (*dto.TopicResponse, error)
	Remove(ctx context.Context, topicID uuid.UUID) error
	GetByID(ctx context.Context, topicID uuid.UUID) (*dto.TopicResponse, error)
	List(ctx context.Context, before time.Time, limit int) ([]*dto.TopicResponse, error)
}

// topicServiceImpl is the implementation of TopicService
type topicServiceImpl struct {
	topicRepo repository.TopicRepository
	logger    *zap.Logger
}

// NewTopicService creates a new instance of TopicService
func NewTopicService(topicRepo repository.TopicRepository, logger *zap.Logger) TopicService {
	return &topicServiceImpl{
		topicRepo: topicRepo,
		logger:    logger,
	}
}

// Create creates a new topic
func (s *topicServiceImpl) Create(ctx context.Context, req *dto.CreateTopicRequest) (*dto.TopicResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewValidationError("Topic name is required", "")
	}
	if err := s.ensureNamesFree(ctx, []string{name}); err != nil {
		return nil, err
	}

	topic := &domain.Topic{Name: name}
	if err := s.topicRepo.Create(ctx, topic); err != nil {
		return nil, translateError(err, "Topic not found", "Failed to create topic")
	}

	s.logger.Info("Topic created", zap.String("topic_id", topic.ID.String()), zap.String("name", name))
	return dto.ToTopicResponse(topic), nil
}

// CreateBatch creates every topic in req or none of them
func (s *topicServiceImpl) CreateBatch(ctx context.Context, req *dto.CreateTopicsRequest) ([]*dto.TopicResponse, error) {
	if len(req.Names) == 0 {
		return nil, response.NewValidationError("At least one topic name is required", "")
	}

	names := make([]string, 0, len(req.Names))
	seen := make(map[string]struct{}, len(req.Names))
	for i, raw := range req.Names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, response.NewValidationError("Topic name is required", "names["+strconv.Itoa(i)+"] is empty")
		}
		if _, dup := seen[name]; dup {
			return nil, response.NewValidationError("Duplicate topic name in batch", name)
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if err := s.ensureNamesFree(ctx, names); err != nil {
		return nil, err
	}

	topics := make([]*domain.Topic, 0, len(names))
	for _, name := range names {
		topics = append(topics, &domain.Topic{Name: name})
	}
	if err := s.topicRepo.CreateBatch(ctx, topics); err != nil {
		return nil, translateError(err, "Topic not found", "Failed to create topics")
	}

	s.logger.Info("Topics created", zap.Int("count", len(topics)))

	responses := make([]*dto.TopicResponse, 0, len(topics))
	for _, topic := range topics {
		responses = append(responses, dto.ToTopicResponse(topic))
	}
	return responses, nil
}

// Update renames a topic
func (s *topicServiceImpl) Update(ctx context.Context, topicID uuid.UUID, req *dto.UpdateTopicRequest) (*dto.TopicResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, response.NewValidationError("Topic name is required", "")
	}

	existing, err := s.topicRepo.FindByNames(ctx, []string{name})
	if err != nil {
		return nil, response.NewInternalError("Failed to check topic names", err.Error())
	}
	for _, topic := range existing {
		if topic.ID != topicID {
			return nil, response.NewValidationError("Topic name already exists", name)
		}
	}

	if err := s.topicRepo.UpdateName(ctx, topicID, name); err != nil {
		return nil, translateError(err, "Topic not found", "Failed to update topic")
	}
	return s.GetByID(ctx, topicID)
}

// Remove deletes a topic
func (s *topicServiceImpl) Remove(ctx context.Context, topicID uuid.UUID) error {
	if err := s.topicRepo.Delete(ctx, topicID); err != nil {
		return translateError(err, "Topic not found", "Failed to delete topic")
	}
	s.logger.Info("Topic removed", zap.String("topic_id", topicID.String()))
	return nil
}

// GetByID retrieves a topic by ID
func (s *topicServiceImpl) GetByID(ctx context.Context, topicID uuid.UUID) (*dto.TopicResponse, error) {
	topic, err := s.topicRepo.FindByID(ctx, topicID)
	if err != nil {
		return nil, translateError(err, "Topic not found", "Failed to fetch topic")
	}
	return dto.ToTopicResponse(topic), nil
}

// List returns topics created strictly before the given time, newest first.
// A zero before means now.
func (s *topicServiceImpl) List(ctx context.Context, before time.Time, limit int) ([]*dto.TopicResponse, error) {
	if before.IsZero() {
		before = time.Now().UTC()
	}

	topics, err := s.topicRepo.ListBefore(ctx, before, limit)
	if err != nil {
		return nil, response.NewInternalError("Failed to list topics", err.Error())
	}

	responses := make([]*dto.TopicResponse, 0, len(topics))
	for _, topic := range topics {
		responses = append(responses, dto.ToTopicResponse(topic))
	}
	return responses, nil
}

func (s *topicServiceImpl) ensureNamesFree(ctx context.Context, names []string) error {
	existing, err := s.topicRepo.FindByNames(ctx, names)
	if err != nil {
		return response.NewInternalError("Failed to check topic names", err.Error())
	}
	if len(existing) > 0 {
		return response.NewValidationError("Topic name already exists", existing[0].Name)
	}
	return nil
}
