package models

import (
	"time"

	"gorm.io/gorm"
)

// Chat represents a conversation between two or more users.
type Chat struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`

	Users    []*User   `gorm:"many2many:chat_users" json:"users"`
	Messages []Message `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"messages"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AfterFind normalizes absent relations to empty sets so they render
// as [] rather than null.
func (c *Chat) AfterFind(*gorm.DB) error {
	if c.Users == nil {
		c.Users = []*User{}
	}
	if c.Messages == nil {
		c.Messages = []Message{}
	}
	return nil
}

// ChatUser is the chat membership join table row. Declared so that
// AutoMigrate creates the composite primary key and membership rows
// cascade when a user or chat is deleted.
type ChatUser struct {
	ChatID uint `gorm:"primaryKey"`
	UserID uint `gorm:"primaryKey"`
}
