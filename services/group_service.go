// services/group_service.go - Workshop groups and membership
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

// ================== GROUP CRUD OPERATIONS ==================

// CreateGroup creates a group in a workshop. An empty code gets a generated one.
func (s *GroupService) CreateGroup(ctx context.Context, workshopID uuid.UUID, name, code string) (*models.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("group name is required")
	}

	if code == "" {
		var err error
		if code, err = s.generateUniqueGroupCode(ctx, workshopID); err != nil {
			return nil, err
		}
	}

	group := &models.Group{
		WorkshopID: workshopID,
		GroupName:  name,
		GroupCode:  code,
		CreatedAt:  time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(group).Error; err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

// GetGroupByCode retrieves a group by its join code within one workshop.
func (s *GroupService) GetGroupByCode(ctx context.Context, code string, workshopID uuid.UUID) (*models.Group, error) {
	var group models.Group
	err := s.db.WithContext(ctx).
		Where("group_code = ? AND workshop_id = ?", code, workshopID).
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get group by code: %w", err)
	}
	return &group, nil
}

// ================== GROUP MEMBERSHIP OPERATIONS ==================

// JoinGroup adds a user to the group holding code in the workshop.
// Returns ErrNotFound for an unknown code, ErrAlreadyMember, with the
// group, when the user already belongs to it, and ErrAlreadyInGroup when the
// user belongs to another group of the workshop.
func (s *GroupService) JoinGroup(ctx context.Context, userID, workshopID uuid.UUID, code string) (*models.Group, error) {
	group, err := s.GetGroupByCode(ctx, code, workshopID)
	if err != nil {
		return nil, err
	}

	member, err := s.IsGroupMember(ctx, userID, group.ID)
	if err != nil {
		return nil, err
	}
	if member {
		return group, ErrAlreadyMember
	}

	// One group per user per workshop
	current, err := s.MembershipForWorkshop(ctx, userID, workshopID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if current != nil {
		return current, ErrAlreadyInGroup
	}

	m := &models.GroupMember{
		GroupID:  group.ID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("join group: %w", err)
	}
	return group, nil
}

// MembershipForWorkshop returns the group the user belongs to in a workshop.
func (s *GroupService) MembershipForWorkshop(ctx context.Context, userID, workshopID uuid.UUID) (*models.Group, error) {
	var group models.Group
	err := s.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = workshop_groups.id").
		Where("group_members.user_id = ? AND workshop_groups.workshop_id = ?", userID, workshopID).
		Order("group_members.joined_at ASC").
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return &group, nil
}

// GetGroupMembers returns the members of a group with their profiles.
func (s *GroupService) GetGroupMembers(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error) {
	var members []models.GroupMember
	err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Preload("User").
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	return members, nil
}

// ListGroups returns every group of a workshop.
func (s *GroupService) ListGroups(ctx context.Context, workshopID uuid.UUID) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.WithContext(ctx).
		Where("workshop_id = ?", workshopID).
		Order("group_name ASC").
		Find(&groups).Error
	return groups, err
}

// ================== HELPER FUNCTIONS ==================

// IsGroupMember checks if a user is a member of a group
func (s *GroupService) IsGroupMember(ctx context.Context, userID, groupID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return count > 0, nil
}

// generateUniqueGroupCode generates a 6-character code unused in the workshop
func (s *GroupService) generateUniqueGroupCode(ctx context.Context, workshopID uuid.UUID) (string, error) {
	for i := 0; i < 10; i++ {
		bytes := make([]byte, 3)
		if _, err := rand.Read(bytes); err != nil {
			return "", err
		}
		code := strings.ToUpper(hex.EncodeToString(bytes))

		var count int64
		err := s.db.WithContext(ctx).Model(&models.Group{}).
			Where("group_code = ? AND workshop_id = ?", code, workshopID).
			Count(&count).Error
		if err != nil {
			return "", fmt.Errorf("check group code: %w", err)
		}

		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique group code")
}
