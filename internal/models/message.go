package models

import (
	"time"
)

// Message represents a chat message. The author must be a member of
// the chat at creation time; the service layer enforces this.
type Message struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ChatID   uint   `gorm:"not null;index" json:"chat_id"`
	Chat     *Chat  `gorm:"foreignKey:ChatID" json:"chat,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
