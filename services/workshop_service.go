// services/workshop_service.go - Workshop catalog and registrations
package services

import (
	"context"
	"errors"
	"fmt"

	"eventhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkshopService struct {
	db *gorm.DB
}

func NewWorkshopService(db *gorm.DB) *WorkshopService {
	return &WorkshopService{db: db}
}

// ListWorkshops returns every workshop, newest first.
func (s *WorkshopService) ListWorkshops(ctx context.Context) ([]models.Workshop, error) {
	var workshops []models.Workshop
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&workshops).Error; err != nil {
		return nil, fmt.Errorf("list workshops: %w", err)
	}
	return workshops, nil
}

// GetWorkshop fetches a single workshop.
func (s *WorkshopService) GetWorkshop(ctx context.Context, id uuid.UUID) (*models.Workshop, error) {
	var workshop models.Workshop
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&workshop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workshop %s: %w", id, err)
	}
	return &workshop, nil
}

func (s *WorkshopService) CreateWorkshop(ctx context.Context, w *models.Workshop) error {
	return s.db.WithContext(ctx).Create(w).Error
}

// RegisteredWorkshopIDs lists the workshops a user is enrolled in.
func (s *WorkshopService) RegisteredWorkshopIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Registration{}).
		Where("user_id = ?", userID).
		Pluck("workshop_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return ids, nil
}

// IsRegistered checks for an existing registration.
func (s *WorkshopService) IsRegistered(ctx context.Context, userID, workshopID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Registration{}).
		Where("user_id = ? AND workshop_id = ?", userID, workshopID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return count > 0, nil
}

// Register enrolls a user. Returns ErrNotFound for an unknown workshop. The
// store's unique index backs up the caller's IsRegistered check.
func (s *WorkshopService) Register(ctx context.Context, userID, workshopID uuid.UUID) error {
	if _, err := s.GetWorkshop(ctx, workshopID); err != nil {
		return err
	}
	if registered, err := s.IsRegistered(ctx, userID, workshopID); err != nil {
		return err
	} else if registered {
		return ErrAlreadyRegistered
	}

	reg := &models.Registration{
		UserID:     userID,
		WorkshopID: workshopID,
		Status:     models.RegistrationStatusEnrolled,
	}
	if err := s.db.WithContext(ctx).Create(reg).Error; err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}
