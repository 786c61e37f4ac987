package domain

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Thread is the aggregate root: it owns its comments, which own their replies
type Thread struct {
	BaseModel
	TopicID   uuid.UUID                   `gorm:"type:uuid;not null;index:idx_threads_topic_id" json:"topicId"`
	AuthorID  uuid.UUID                   `gorm:"type:uuid;not null;index:idx_threads_author_id" json:"authorId"`
	Title     string                      `gorm:"type:varchar(255);not null" json:"title"`
	Body      string                      `gorm:"type:text;not null" json:"body"`
	CardImage datatypes.JSONType[*Image]  `json:"cardImage"`
	Tags      datatypes.JSONSlice[string] `json:"tags"`
	LikeCount int64                       `gorm:"not null;default:0" json:"likeCount"`

	Comments []Comment `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// TableName specifies the table name for Thread
func (Thread) TableName() string {
	return "threads"
}

// Comment belongs to a thread and owns replies
type Comment struct {
	BaseModel
	ThreadID  uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_thread_id" json:"threadId"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_author_id" json:"authorId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	LikeCount int64     `gorm:"not null;default:0" json:"likeCount"`

	Replies []Reply `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// Reply belongs to a comment
type Reply struct {
	BaseModel
	ThreadID  uuid.UUID `gorm:"type:uuid;not null;index:idx_replies_thread_id" json:"threadId"`
	CommentID uuid.UUID `gorm:"type:uuid;not null;index:idx_replies_comment_id" json:"commentId"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index:idx_replies_author_id" json:"authorId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	LikeCount int64     `gorm:"not null;default:0" json:"likeCount"`
}

// TableName specifies the table name for Reply
func (Reply) TableName() string {
	return "replies"
}
