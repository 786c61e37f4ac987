package domain

// Topic is a named category threads are filed under
type Topic struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex:idx_topics_name" json:"name"`
}

// TableName specifies the table name for Topic
func (Topic) TableName() string {
	return "topics"
}
