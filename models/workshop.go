// models/workshop.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workshop is a scheduled multi-task team event. Views never write it.
type Workshop struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:200"`
	Description *string   `json:"description" gorm:"type:text"`
	BannerURL   *string   `json:"banner_url"`
	Duration    *string   `json:"duration" gorm:"size:50"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

func (Workshop) TableName() string {
	return "workshops"
}

func (w *Workshop) BeforeCreate(tx *gorm.DB) error {
	ensureID(&w.ID)
	return nil
}

// RegistrationStatusEnrolled is the only status the catalog writes.
const RegistrationStatusEnrolled = "enrolled"

// Registration enrolls a user in a workshop.
type Registration struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_workshop"`
	WorkshopID uuid.UUID `json:"workshop_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_workshop"`
	Status     string    `json:"status" gorm:"not null;default:'enrolled';size:20"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Registration) TableName() string {
	return "user_workshops"
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func (r Registration) FeedKeys() map[string]string {
	return keys("user_id", r.UserID, "workshop_id", r.WorkshopID)
}
