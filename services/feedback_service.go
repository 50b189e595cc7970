// services/feedback_service.go - Post-workshop feedback and mentorship requests
package services

import (
	"context"
	"fmt"

	"eventhub/models"

	"gorm.io/gorm"
)

type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

func (s *FeedbackService) SubmitFeedback(ctx context.Context, f *models.Feedback) error {
	if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

func (s *FeedbackService) RequestMentorship(ctx context.Context, m *models.MentorshipRequest) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create mentorship request: %w", err)
	}
	return nil
}
