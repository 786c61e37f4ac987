package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
)

// CreateThreadRequest represents the request to create a thread
type CreateThreadRequest struct {
	TopicID   uuid.UUID     `json:"topicId" binding:"required" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	Title     string        `json:"title" binding:"required,max=255" example:"Mock"`
	Body      string        `json:"body" binding:"required" example:"Mock"`
	CardImage *domain.Image `json:"cardImage,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
}

// UpdateThreadRequest is a partial thread update.
// Only topicId, title, body, cardImage and tags can change; omitted or empty fields are kept.
type UpdateThreadRequest struct {
	TopicID   *uuid.UUID    `json:"topicId,omitempty"`
	Title     string        `json:"title,omitempty" binding:"omitempty,max=255"`
	Body      string        `json:"body,omitempty"`
	CardImage *domain.Image `json:"cardImage,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
}

// TextRequest is the body of comment and reply create/update requests
type TextRequest struct {
	Text string `json:"text" binding:"required" example:"Mock"`
}

// ReplyResponse represents a reply inside a comment
type ReplyResponse struct {
	ID        uuid.UUID       `json:"id"`
	Author    *AuthorResponse `json:"author"`
	Text      string          `json:"text"`
	LikeCount int64           `json:"likeCount"`
	LikerIDs  []uuid.UUID     `json:"likerIds"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CommentResponse represents a comment inside a thread
type CommentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Author    *AuthorResponse `json:"author"`
	Text      string          `json:"text"`
	Replies   []ReplyResponse `json:"replies"`
	LikeCount int64           `json:"likeCount"`
	LikerIDs  []uuid.UUID     `json:"likerIds"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ThreadResponse is the full thread with every author resolved
type ThreadResponse struct {
	ID        uuid.UUID         `json:"id"`
	TopicID   uuid.UUID         `json:"topicId"`
	Author    *AuthorResponse   `json:"author"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	CardImage *domain.Image     `json:"cardImage"`
	Tags      []string          `json:"tags"`
	Comments  []CommentResponse `json:"comments"`
	LikeCount int64             `json:"likeCount"`
	LikerIDs  []uuid.UUID       `json:"likerIds"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
