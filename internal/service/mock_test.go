package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
	"github.com/vuongngo/reactive-forum-api/internal/notify"
	"github.com/vuongngo/reactive-forum-api/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	CreateFunc             func(ctx context.Context, user *domain.User) error
	FindByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByUsernameFunc     func(ctx context.Context, username string) (*domain.User, error)
	FindByIDsFunc          func(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error)
	ListFunc               func(ctx context.Context, opts domain.ListOptions) ([]*domain.User, error)
	UpdateFieldsFunc       func(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	SetTokenFunc           func(ctx context.Context, id uuid.UUID, token *string) error
	DeleteFunc             func(ctx context.Context, id uuid.UUID) error
	AdjustContributionFunc func(ctx context.Context, id uuid.UUID, field domain.ContributionField, delta int64) error
	ToggleFlagFunc         func(ctx context.Context, userID, threadID uuid.UUID) (bool, error)
	ListFlagsFunc          func(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	FindWithTokenFunc      func(ctx context.Context, afterID uuid.UUID, limit int) ([]*domain.User, error)
	ClearTokenIfFunc       func(ctx context.Context, id uuid.UUID, token string) (bool, error)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockUserRepository) List(ctx context.Context, opts domain.ListOptions) ([]*domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts)
	}
	return nil, nil
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil
}

func (m *MockUserRepository) SetToken(ctx context.Context, id uuid.UUID, token *string) error {
	if m.SetTokenFunc != nil {
		return m.SetTokenFunc(ctx, id, token)
	}
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) AdjustContribution(ctx context.Context, id uuid.UUID, field domain.ContributionField, delta int64) error {
	if m.AdjustContributionFunc != nil {
		return m.AdjustContributionFunc(ctx, id, field, delta)
	}
	return nil
}

func (m *MockUserRepository) ToggleFlag(ctx context.Context, userID, threadID uuid.UUID) (bool, error) {
	if m.ToggleFlagFunc != nil {
		return m.ToggleFlagFunc(ctx, userID, threadID)
	}
	return true, nil
}

func (m *MockUserRepository) ListFlags(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if m.ListFlagsFunc != nil {
		return m.ListFlagsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockUserRepository) FindWithToken(ctx context.Context, afterID uuid.UUID, limit int) ([]*domain.User, error) {
	if m.FindWithTokenFunc != nil {
		return m.FindWithTokenFunc(ctx, afterID, limit)
	}
	return nil, nil
}

func (m *MockUserRepository) ClearTokenIf(ctx context.Context, id uuid.UUID, token string) (bool, error) {
	if m.ClearTokenIfFunc != nil {
		return m.ClearTokenIfFunc(ctx, id, token)
	}
	return false, nil
}

// MockTopicRepository is a mock implementation of TopicRepository
type MockTopicRepository struct {
	CreateFunc      func(ctx context.Context, topic *domain.Topic) error
	CreateBatchFunc func(ctx context.Context, topics []*domain.Topic) error
	FindByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Topic, error)
	FindByNamesFunc func(ctx context.Context, names []string) ([]*domain.Topic, error)
	ExistsFunc      func(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateNameFunc  func(ctx context.Context, id uuid.UUID, name string) error
	DeleteFunc      func(ctx context.Context, id uuid.UUID) error
	ListBeforeFunc  func(ctx context.Context, before time.Time, limit int) ([]*domain.Topic, error)
}

func (m *MockTopicRepository) Create(ctx context.Context, topic *domain.Topic) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, topic)
	}
	return nil
}

func (m *MockTopicRepository) CreateBatch(ctx context.Context, topics []*domain.Topic) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, topics)
	}
	return nil
}

func (m *MockTopicRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTopicRepository) FindByNames(ctx context.Context, names []string) ([]*domain.Topic, error) {
	if m.FindByNamesFunc != nil {
		return m.FindByNamesFunc(ctx, names)
	}
	return nil, nil
}

func (m *MockTopicRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return true, nil
}

func (m *MockTopicRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	if m.UpdateNameFunc != nil {
		return m.UpdateNameFunc(ctx, id, name)
	}
	return nil
}

func (m *MockTopicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTopicRepository) ListBefore(ctx context.Context, before time.Time, limit int) ([]*domain.Topic, error) {
	if m.ListBeforeFunc != nil {
		return m.ListBeforeFunc(ctx, before, limit)
	}
	return nil, nil
}

// MockThreadRepository overrides FindHeader only; other methods panic when called
type MockThreadRepository struct {
	repository.ThreadRepository
	FindHeaderFunc func(ctx context.Context, id uuid.UUID) (*domain.Thread, error)
}

func (m *MockThreadRepository) FindHeader(ctx context.Context, id uuid.UUID) (*domain.Thread, error) {
	if m.FindHeaderFunc != nil {
		return m.FindHeaderFunc(ctx, id)
	}
	return &domain.Thread{BaseModel: domain.BaseModel{ID: id}}, nil
}

// recordingSink collects published events
type recordingSink struct {
	events []notify.Event
	err    error
}

func (s *recordingSink) Publish(_ context.Context, event notify.Event) error {
	s.events = append(s.events, event)
	return s.err
}

func (s *recordingSink) names() []string {
	names := make([]string, 0, len(s.events))
	for _, event := range s.events {
		names = append(names, event.Name())
	}
	return names
}
