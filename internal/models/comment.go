package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. Comments form a thread via
// ParentCommentID. Deletion is logical only: IsDeleted is set and the
// row stays, so replies keep a valid parent. This is intentionally
// asymmetric with the hard deletes used everywhere else.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	Post     *Post  `gorm:"foreignKey:PostID" json:"post,omitempty"`

	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id,omitempty"`
	Replies         []Comment `gorm:"foreignKey:ParentCommentID" json:"replies,omitempty"`

	IsDeleted bool `gorm:"default:false" json:"is_deleted"`

	UsersThatLiked []*User `gorm:"many2many:comment_likes" json:"users_that_liked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AfterFind normalizes an absent liker set to [] rather than null.
func (c *Comment) AfterFind(*gorm.DB) error {
	if c.UsersThatLiked == nil {
		c.UsersThatLiked = []*User{}
	}
	return nil
}
