// models/leaderboard.go
package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaderboardEntry is the per-group aggregate for a workshop. Only the store
// side writes it.
type LeaderboardEntry struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	WorkshopID     uuid.UUID `json:"workshop_id" gorm:"type:uuid;not null;uniqueIndex:idx_leaderboard_group"`
	GroupID        uuid.UUID `json:"group_id" gorm:"type:uuid;not null;uniqueIndex:idx_leaderboard_group"`
	Group          *Group    `json:"workshop_groups,omitempty" gorm:"foreignKey:GroupID"`
	Rank           *int      `json:"rank"`
	TotalScore     int       `json:"total_score" gorm:"not null;default:0"`
	TasksCompleted int       `json:"tasks_completed" gorm:"not null;default:0"`
}

func (LeaderboardEntry) TableName() string {
	return "workshop_leaderboard"
}

func (e *LeaderboardEntry) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

func (e LeaderboardEntry) FeedKeys() map[string]string {
	return keys("workshop_id", e.WorkshopID)
}

// Judge is a user judging or mentoring in a workshop.
type Judge struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	WorkshopID uuid.UUID `json:"workshop_id" gorm:"type:uuid;not null;uniqueIndex:idx_workshop_judge"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_workshop_judge"`
	User       *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Judge) TableName() string {
	return "workshop_judges"
}

func (j *Judge) BeforeCreate(tx *gorm.DB) error {
	ensureID(&j.ID)
	return nil
}
