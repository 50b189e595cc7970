// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account plus the public profile shown in rosters and judge lists.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Email     *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	Password  string    `gorm:"not null" json:"-"`
	FullName  string    `gorm:"size:120" json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// Profile is the slice of a user rendered next to group members and judges.
type Profile struct {
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// Profile returns the public profile, falling back to the username.
func (u User) Profile() Profile {
	name := u.FullName
	if name == "" {
		name = u.Username
	}
	return Profile{FullName: name, AvatarURL: u.AvatarURL}
}
