// models/feedback.go - append-only post-workshop records
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Feedback struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	WorkshopID  uuid.UUID `json:"workshop_id" gorm:"type:uuid;not null;index"`
	Rating      int       `json:"rating" gorm:"not null"`
	Content     string    `json:"content" gorm:"type:text"`
	Suggestions string    `json:"suggestions" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

type MentorshipRequest struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	WorkshopID      uuid.UUID `json:"workshop_id" gorm:"type:uuid;not null;index"`
	IdeaTitle       string    `json:"idea_title" gorm:"not null;size:200"`
	IdeaDescription string    `json:"idea_description" gorm:"type:text;not null"`
	CreatedAt       time.Time `json:"created_at"`
}

func (MentorshipRequest) TableName() string {
	return "mentorship_requests"
}

func (m *MentorshipRequest) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
