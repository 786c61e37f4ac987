package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
)

// SignUpRequest represents the request to register a new user
type SignUpRequest struct {
	Username string `json:"username" binding:"required,max=100" example:"mock"`
	Password string `json:"password" binding:"required" example:"123456"`
}

// SignInRequest represents the request to open a session
type SignInRequest struct {
	Username string `json:"username" binding:"required" example:"mock"`
	Password string `json:"password" binding:"required" example:"123456"`
}

// AuthResponse is returned by sign-up and sign-in
// @Description token is sent back as "Authorization: Bearer <token>"
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType" example:"Bearer"`
}

// UpdateUserRequest represents a partial profile update.
// Empty fields are ignored.
type UpdateUserRequest struct {
	Username  string        `json:"username,omitempty" binding:"omitempty,max=100"`
	FirstName string        `json:"firstName,omitempty" binding:"omitempty,max=100"`
	LastName  string        `json:"lastName,omitempty" binding:"omitempty,max=100"`
	Avatar    *domain.Image `json:"avatar,omitempty"`
}

// ProfileResponse is the public profile including contribution counters
type ProfileResponse struct {
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Avatar    *domain.Image `json:"avatar"`
	Posts     int64         `json:"posts"`
	Comments  int64         `json:"comments"`
	Replies   int64         `json:"replies"`
	Total     int64         `json:"total"`
	CreatedAt time.Time     `json:"createdAt"`
}

// UserResponse represents the user response
type UserResponse struct {
	ID       uuid.UUID       `json:"id"`
	Username string          `json:"username"`
	Role     string          `json:"role,omitempty"`
	Profile  ProfileResponse `json:"profile"`
	Flags    []uuid.UUID     `json:"flags,omitempty"`
}

// AuthorResponse is the projection of a user embedded in threads, comments and replies
type AuthorResponse struct {
	ID       uuid.UUID       `json:"id"`
	Username string          `json:"username"`
	Profile  ProfileResponse `json:"profile"`
}

// ToProfileResponse converts the embedded profile of user
func ToProfileResponse(user *domain.User) ProfileResponse {
	return ProfileResponse{
		FirstName: user.Profile.FirstName,
		LastName:  user.Profile.LastName,
		Avatar:    user.Profile.Avatar.Data(),
		Posts:     user.Profile.Posts,
		Comments:  user.Profile.Comments,
		Replies:   user.Profile.Replies,
		Total:     user.Profile.Total,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserResponse converts domain.User to UserResponse
func ToUserResponse(user *domain.User) *UserResponse {
	return &UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Profile:  ToProfileResponse(user),
	}
}

// ToAuthorResponse converts domain.User to AuthorResponse
func ToAuthorResponse(user *domain.User) *AuthorResponse {
	return &AuthorResponse{
		ID:       user.ID,
		Username: user.Username,
		Profile:  ToProfileResponse(user),
	}
}
