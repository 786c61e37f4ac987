package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RoleAdmin is the stored role tag of administrators
const RoleAdmin = "admin"

// ContributionField names a profile counter adjusted by thread activity
type ContributionField string

const (
	ContributionPosts    ContributionField = "posts"
	ContributionComments ContributionField = "comments"
	ContributionReplies  ContributionField = "replies"
	ContributionTotal    ContributionField = "total"
)

// Column returns the users column backing the counter
func (f ContributionField) Column() string {
	return "profile_" + string(f)
}

// IsValid reports whether f is a known counter
func (f ContributionField) IsValid() bool {
	switch f {
	case ContributionPosts, ContributionComments, ContributionReplies, ContributionTotal:
		return true
	}
	return false
}

// User owns a password credential, a session token and a profile
type User struct {
	BaseModel
	Username   string  `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_username" json:"username"`
	Hash       string  `gorm:"type:varchar(128);not null" json:"-"`
	Salt       string  `gorm:"type:varchar(256);not null" json:"-"`
	Iterations int     `gorm:"not null" json:"-"`
	Token      *string `gorm:"type:text;index:idx_users_token" json:"-"`
	Role       string  `gorm:"type:varchar(20);not null;default:''" json:"role,omitempty"`
	Profile    Profile `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`

	Flags []UserFlag `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile is the public part of a user, including contribution counters
type Profile struct {
	FirstName string                     `gorm:"type:varchar(100);not null;default:''" json:"firstName"`
	LastName  string                     `gorm:"type:varchar(100);not null;default:''" json:"lastName"`
	Avatar    datatypes.JSONType[*Image] `json:"avatar"`
	Posts     int64                      `gorm:"not null;default:0" json:"posts"`
	Comments  int64                      `gorm:"not null;default:0" json:"comments"`
	Replies   int64                      `gorm:"not null;default:0" json:"replies"`
	Total     int64                      `gorm:"not null;default:0" json:"total"`
}

// UserFlag records that a user flagged a thread
type UserFlag struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	ThreadID  uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_user_flags_thread_id" json:"threadId"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// TableName specifies the table name for UserFlag
func (UserFlag) TableName() string {
	return "user_flags"
}
