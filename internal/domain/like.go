package domain

import (
	"time"

	"github.com/google/uuid"
)

// LikeTarget identifies the kind of entity a like points at
type LikeTarget string

const (
	LikeTargetThread  LikeTarget = "thread"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetReply   LikeTarget = "reply"
)

// Table returns the table holding the like_count of the target
func (t LikeTarget) Table() string {
	switch t {
	case LikeTargetThread:
		return "threads"
	case LikeTargetComment:
		return "comments"
	case LikeTargetReply:
		return "replies"
	}
	return ""
}

// Like is one user's like on a thread, comment or reply.
// The composite key guarantees one like per user and target.
type Like struct {
	TargetType LikeTarget `gorm:"type:varchar(10);primaryKey" json:"targetType"`
	TargetID   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"targetId"`
	UserID     uuid.UUID  `gorm:"type:uuid;primaryKey;index:idx_likes_user_id" json:"userId"`
	CreatedAt  time.Time  `gorm:"not null" json:"createdAt"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "likes"
}
