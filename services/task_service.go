// services/task_service.go - Tasks, submissions, judges
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskService struct {
	db          *gorm.DB
	leaderboard *LeaderboardService
}

func NewTaskService(db *gorm.DB, leaderboard *LeaderboardService) *TaskService {
	return &TaskService{db: db, leaderboard: leaderboard}
}

// ListTasks returns a workshop's tasks in presentation order.
func (s *TaskService) ListTasks(ctx context.Context, workshopID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("workshop_id = ?", workshopID).
		Order("task_order ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

func (s *TaskService) CreateTask(ctx context.Context, task *models.Task) error {
	return s.db.WithContext(ctx).Create(task).Error
}

// SetTaskActive locks or unlocks a task.
func (s *TaskService) SetTaskActive(ctx context.Context, id uuid.UUID, active bool) (*models.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"is_active": active}
	if active && task.StartTime == nil {
		updates["start_time"] = time.Now()
	}
	if err := s.db.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// ================== SUBMISSIONS ==================

// GroupSubmissions returns every submission of a group, newest first.
func (s *TaskService) GroupSubmissions(ctx context.Context, groupID uuid.UUID) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("submitted_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

// CreateSubmission stores a new pending submission.
func (s *TaskService) CreateSubmission(ctx context.Context, groupID, taskID uuid.UUID, text string, fileURLs []string) (*models.Submission, error) {
	if fileURLs == nil {
		fileURLs = []string{}
	}
	sub := &models.Submission{
		GroupID:        groupID,
		TaskID:         taskID,
		TextSubmission: &text,
		FileURLs:       fileURLs,
		Status:         models.StatusPending,
		SubmittedAt:    time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return sub, nil
}

func (s *TaskService) GetSubmission(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return &sub, nil
}

// PendingSubmissions is the judging queue of a workshop, oldest first.
func (s *TaskService) PendingSubmissions(ctx context.Context, workshopID uuid.UUID) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.WithContext(ctx).
		Joins("JOIN workshop_tasks ON workshop_tasks.id = team_task_submissions.task_id").
		Where("workshop_tasks.workshop_id = ? AND team_task_submissions.status = ?", workshopID, models.StatusPending).
		Order("team_task_submissions.submitted_at ASC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}
	return subs, nil
}

// ScoreSubmission marks a submission completed with a score between zero and
// the task's points, then recomputes the workshop leaderboard.
func (s *TaskService) ScoreSubmission(ctx context.Context, id uuid.UUID, score int) (*models.Submission, *models.Task, error) {
	sub, err := s.GetSubmission(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	task, err := s.GetTask(ctx, sub.TaskID)
	if err != nil {
		return nil, nil, err
	}
	if score < 0 || score > task.Points {
		return nil, nil, ErrInvalidScore
	}

	err = s.db.WithContext(ctx).Model(sub).Updates(map[string]interface{}{
		"status": models.StatusCompleted,
		"score":  score,
	}).Error
	if err != nil {
		return nil, nil, fmt.Errorf("score submission: %w", err)
	}
	sub.Status = models.StatusCompleted
	sub.Score = &score

	if s.leaderboard != nil {
		if err := s.leaderboard.Recompute(ctx, task.WorkshopID); err != nil {
			return sub, task, err
		}
	}
	return sub, task, nil
}

// ================== JUDGES ==================

// ListJudges returns the judges of a workshop with their profiles.
func (s *TaskService) ListJudges(ctx context.Context, workshopID uuid.UUID) ([]models.Judge, error) {
	var judges []models.Judge
	err := s.db.WithContext(ctx).
		Where("workshop_id = ?", workshopID).
		Preload("User").
		Find(&judges).Error
	if err != nil {
		return nil, fmt.Errorf("list judges: %w", err)
	}
	return judges, nil
}

func (s *TaskService) IsJudge(ctx context.Context, userID, workshopID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Judge{}).
		Where("workshop_id = ? AND user_id = ?", workshopID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *TaskService) AddJudge(ctx context.Context, workshopID, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Create(&models.Judge{WorkshopID: workshopID, UserID: userID}).Error
}
