// models/group.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group is a team inside one workshop, joined by presenting its code.
type Group struct {
	ID         uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	WorkshopID uuid.UUID     `json:"workshop_id" gorm:"type:uuid;not null;uniqueIndex:idx_group_code_workshop"`
	GroupName  string        `json:"group_name" gorm:"not null;size:100"`
	GroupCode  string        `json:"group_code" gorm:"not null;size:20;uniqueIndex:idx_group_code_workshop"`
	LogoURL    *string       `json:"logo_url"`
	Slogan     *string       `json:"slogan"`
	Members    []GroupMember `json:"members,omitempty" gorm:"foreignKey:GroupID"`
	CreatedAt  time.Time     `json:"created_at"`
}

func (Group) TableName() string {
	return "workshop_groups"
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	ensureID(&g.ID)
	return nil
}

func (g Group) FeedKeys() map[string]string {
	return keys("workshop_id", g.WorkshopID)
}

// GroupMember links a user to a group. There is no removal path.
type GroupMember struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	GroupID  uuid.UUID `json:"group_id" gorm:"type:uuid;not null;uniqueIndex:idx_group_member"`
	Group    *Group    `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_group_member"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	JoinedAt time.Time `json:"joined_at" gorm:"not null"`
}

func (GroupMember) TableName() string {
	return "group_members"
}

func (m *GroupMember) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return nil
}

func (m GroupMember) FeedKeys() map[string]string {
	return keys("group_id", m.GroupID, "user_id", m.UserID)
}
