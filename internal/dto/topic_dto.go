package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/vuongngo/reactive-forum-api/internal/domain"
)

// CreateTopicRequest represents the request to create a topic
type CreateTopicRequest struct {
	Name string `json:"name" binding:"required,max=255" example:"Mock"`
}

// CreateTopicsRequest creates several topics at once; all or none are created
type CreateTopicsRequest struct {
	Names []string `json:"names" binding:"required,min=1"`
}

// UpdateTopicRequest represents the request to rename a topic
type UpdateTopicRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// TopicResponse represents the topic response
type TopicResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToTopicResponse converts domain.Topic to TopicResponse
func ToTopicResponse(topic *domain.Topic) *TopicResponse {
	return &TopicResponse{
		ID:        topic.ID,
		Name:      topic.Name,
		CreatedAt: topic.CreatedAt,
	}
}
