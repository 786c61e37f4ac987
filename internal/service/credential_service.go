package service

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vuongngo/reactive-forum-api/internal/config"
	"github.com/vuongngo/reactive-forum-api/internal/domain"
	"github.com/vuongngo/reactive-forum-api/internal/dto"
	"github.com/vuongngo/reactive-forum-api/internal/metrics"
	"github.com/vuongngo/reactive-forum-api/internal/policy"
	"github.com/vuongngo/reactive-forum-api/internal/repository"
	"github.com/vuongngo/reactive-forum-api/internal/response"
	"github.com/vuongngo/reactive-forum-api/internal/security"
)

// CredentialService defines user registration, sessions and profile operations
type CredentialService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error)
	SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.AuthResponse, error)
	ClearSession(ctx context.Context, userID uuid.UUID) error
	ValidateToken(ctx context.Context, token string) (*policy.Caller, error)

	GetByID(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	List(ctx context.Context, opts domain.ListOptions) ([]*dto.UserResponse, error)
	Update(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Remove(ctx context.Context, userID uuid.UUID) error
	ToggleFlag(ctx context.Context, userID, threadID uuid.UUID) (*dto.UserResponse, error)
}

// credentialServiceImpl is the implementation of CredentialService
type credentialServiceImpl struct {
	userRepo   repository.UserRepository
	threadRepo repository.ThreadRepository
	hasher     *PasswordHasher
	tokens     *TokenManager
	sanitizer  security.ContentSanitizer
	auth       config.AuthConfig
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewCredentialService creates a new instance of CredentialService
func NewCredentialService(
	userRepo repository.UserRepository,
	threadRepo repository.ThreadRepository,
	hasher *PasswordHasher,
	tokens *TokenManager,
	sanitizer security.ContentSanitizer,
	auth config.AuthConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) CredentialService {
	return &credentialServiceImpl{
		userRepo:   userRepo,
		threadRepo: threadRepo,
		hasher:     hasher,
		tokens:     tokens,
		sanitizer:  sanitizer,
		auth:       auth,
		metrics:    m,
		logger:     logger,
	}
}

// SignUp registers a user and opens its first session
func (s *credentialServiceImpl) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, response.NewValidationError("Username and password are required", "")
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, response.NewValidationError("Username already exists", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewInternalError("Failed to check username", err.Error())
	}

	hash, salt, iterations, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, response.NewInternalError("Failed to hash password", err.Error())
	}

	user := &domain.User{
		Username:   username,
		Hash:       hash,
		Salt:       salt,
		Iterations: iterations,
	}
	if s.auth.IsAdminUsername(username) {
		user.Role = domain.RoleAdmin
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, translateError(err, "User not found", "Failed to create user")
	}

	s.logger.Info("User signed up", zap.String("user_id", user.ID.String()), zap.String("username", username))
	return s.issueSession(ctx, user)
}

// SignIn checks the password and replaces the stored session token
func (s *credentialServiceImpl) SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.RecordSignIn("unknown_user")
			return nil, response.NewNotFoundError("User not found", "")
		}
		return nil, response.NewInternalError("Failed to fetch user", err.Error())
	}

	if !s.hasher.Verify(req.Password, user.Salt, user.Hash, user.Iterations) {
		s.metrics.RecordSignIn("wrong_password")
		return nil, response.NewUnauthenticatedError("Password is incorrect", "")
	}

	s.metrics.RecordSignIn("success")
	return s.issueSession(ctx, user)
}

func (s *credentialServiceImpl) issueSession(ctx context.Context, user *domain.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, response.NewInternalError("Failed to issue token", err.Error())
	}
	if err := s.userRepo.SetToken(ctx, user.ID, &token); err != nil {
		return nil, translateError(err, "User not found", "Failed to store session")
	}

	return &dto.AuthResponse{
		User:      *dto.ToUserResponse(user),
		Token:     token,
		TokenType: "Bearer",
	}, nil
}

// ClearSession signs the user out
func (s *credentialServiceImpl) ClearSession(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.SetToken(ctx, userID, nil); err != nil {
		return translateError(err, "User not found", "Failed to clear session")
	}
	return nil
}

// ValidateToken accepts a token only while it is the user's stored session token
func (s *credentialServiceImpl) ValidateToken(ctx context.Context, token string) (*policy.Caller, error) {
	userID, _, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, response.NewUnauthenticatedError("Token has expired", "")
		}
		return nil, response.NewUnauthenticatedError("Invalid token", err.Error())
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthenticatedError("Invalid token", "user no longer exists")
		}
		return nil, response.NewInternalError("Failed to fetch user", err.Error())
	}
	if user.Token == nil || *user.Token != token {
		return nil, response.NewUnauthenticatedError("Invalid token", "session was closed")
	}

	return &policy.Caller{ID: user.ID, Role: user.Role}, nil
}

// GetByID returns the public projection of a user including flags
func (s *credentialServiceImpl) GetByID(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, translateError(err, "User not found", "Failed to fetch user")
	}
	return s.withFlags(ctx, user)
}

// List returns a page of users
func (s *credentialServiceImpl) List(ctx context.Context, opts domain.ListOptions) ([]*dto.UserResponse, error) {
	users, err := s.userRepo.List(ctx, opts)
	if err != nil {
		return nil, translateError(err, "User not found", "Failed to list users")
	}

	responses := make([]*dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, publicUser(user))
	}
	return responses, nil
}

// Update applies the non-empty fields of req
func (s *credentialServiceImpl) Update(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	fields := make(map[string]interface{})

	if username := strings.TrimSpace(req.Username); username != "" {
		existing, err := s.userRepo.FindByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != userID:
			return nil, response.NewValidationError("Username already exists", "")
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, response.NewInternalError("Failed to check username", err.Error())
		}
		fields["username"] = username
	}
	if firstName := s.sanitizer.SanitizeText(req.FirstName); firstName != "" {
		fields["profile_first_name"] = firstName
	}
	if lastName := s.sanitizer.SanitizeText(req.LastName); lastName != "" {
		fields["profile_last_name"] = lastName
	}
	if req.Avatar != nil && req.Avatar.URL != "" {
		fields["profile_avatar"] = datatypes.NewJSONType(req.Avatar)
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, translateError(err, "User not found", "Failed to update user")
		}
	}

	return s.GetByID(ctx, userID)
}

// Remove deletes the user and its flags
func (s *credentialServiceImpl) Remove(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return translateError(err, "User not found", "Failed to delete user")
	}
	s.logger.Info("User removed", zap.String("user_id", userID.String()))
	return nil
}

// ToggleFlag adds or removes threadID from the user's flags
func (s *credentialServiceImpl) ToggleFlag(ctx context.Context, userID, threadID uuid.UUID) (*dto.UserResponse, error) {
	if _, err := s.threadRepo.FindHeader(ctx, threadID); err != nil {
		return nil, translateError(err, "Thread not found", "Failed to fetch thread")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, translateError(err, "User not found", "Failed to fetch user")
	}

	flagged, err := s.userRepo.ToggleFlag(ctx, userID, threadID)
	if err != nil {
		return nil, translateError(err, "User not found", "Failed to toggle flag")
	}

	s.logger.Debug("Thread flag toggled",
		zap.String("user_id", userID.String()),
		zap.String("thread_id", threadID.String()),
		zap.Bool("flagged", flagged))

	return s.withFlags(ctx, user)
}

func (s *credentialServiceImpl) withFlags(ctx context.Context, user *domain.User) (*dto.UserResponse, error) {
	flags, err := s.userRepo.ListFlags(ctx, user.ID)
	if err != nil {
		return nil, response.NewInternalError("Failed to fetch flags", err.Error())
	}

	resp := publicUser(user)
	resp.Flags = flags
	return resp, nil
}

// publicUser hides the role outside of the caller's own auth response
func publicUser(user *domain.User) *dto.UserResponse {
	resp := dto.ToUserResponse(user)
	resp.Role = ""
	return resp
}
