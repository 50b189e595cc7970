// models/task.go - Workshop tasks and team submissions
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is an ordered, scored unit of work, locked until IsActive is set.
type Task struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	WorkshopID   uuid.UUID  `json:"workshop_id" gorm:"type:uuid;not null;index"`
	Title        string     `json:"title" gorm:"not null;size:200"`
	Description  string     `json:"description" gorm:"type:text"`
	TaskOrder    int        `json:"task_order" gorm:"not null;default:0"`
	Points       int        `json:"points" gorm:"not null;default:0"`
	TimerMinutes *int       `json:"timer_minutes"`
	IsActive     bool       `json:"is_active" gorm:"not null;default:false"`
	StartTime    *time.Time `json:"start_time"`
}

func (Task) TableName() string {
	return "workshop_tasks"
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

func (t Task) FeedKeys() map[string]string {
	return keys("workshop_id", t.WorkshopID)
}

// Submission statuses. NotStarted is derived for tasks without a submission
// and is never stored.
const (
	StatusNotStarted = "not_started"
	StatusPending    = "pending"
	StatusCompleted  = "completed"
)

// Submission is a group's attempt at a task.
type Submission struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	GroupID        uuid.UUID `json:"group_id" gorm:"type:uuid;not null;index"`
	TaskID         uuid.UUID `json:"task_id" gorm:"type:uuid;not null;index"`
	TextSubmission *string   `json:"text_submission" gorm:"type:text"`
	FileURLs       []string  `json:"file_urls" gorm:"serializer:json;type:text"`
	Status         string    `json:"status" gorm:"not null;default:'pending';size:20;index"`
	Score          *int      `json:"score"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

func (Submission) TableName() string {
	return "team_task_submissions"
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}
	return nil
}

func (s Submission) FeedKeys() map[string]string {
	return keys("group_id", s.GroupID, "task_id", s.TaskID)
}
