// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the Tessera application.
//
// Following/FollowedBy are two views over the same self-referential
// user_follows join table, so appending to one side is visible from
// the other.
type User struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Username   string `gorm:"unique;not null" json:"username"`
	Password   string `gorm:"not null" json:"-"`
	ProfileBio string `gorm:"type:text" json:"profile_bio"`
	ProfileURL string `json:"profile_url"`

	Following  []*User `gorm:"many2many:user_follows;joinForeignKey:FollowerID;joinReferences:FolloweeID" json:"following"`
	FollowedBy []*User `gorm:"many2many:user_follows;joinForeignKey:FolloweeID;joinReferences:FollowerID" json:"followed_by"`

	Chats    []*Chat   `gorm:"many2many:chat_users" json:"chats,omitempty"`
	Posts    []Post    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"posts,omitempty"`
	Comments []Comment `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Messages []Message `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AfterFind normalizes absent relations to empty sets so they render
// as [] rather than null.
func (u *User) AfterFind(*gorm.DB) error {
	if u.Following == nil {
		u.Following = []*User{}
	}
	if u.FollowedBy == nil {
		u.FollowedBy = []*User{}
	}
	return nil
}

// UserFollow is the join table row backing the Following/FollowedBy
// relation. Declared explicitly so AutoMigrate creates the composite
// primary key and cascading deletes.
type UserFollow struct {
	FollowerID uint `gorm:"primaryKey"`
	FolloweeID uint `gorm:"primaryKey"`
}
