package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post authored by a user.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	UsersThatLiked []*User   `gorm:"many2many:post_likes" json:"users_that_liked"`
	Comments       []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AfterFind normalizes an absent liker set to [] rather than null.
func (p *Post) AfterFind(*gorm.DB) error {
	if p.UsersThatLiked == nil {
		p.UsersThatLiked = []*User{}
	}
	return nil
}
