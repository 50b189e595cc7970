// services/leaderboard_service.go - Workshop leaderboard aggregation
package services

import (
	"context"
	"fmt"
	"sort"

	"eventhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// GetLeaderboard returns a workshop's entries by rank, unranked last.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, workshopID uuid.UUID) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := s.db.WithContext(ctx).
		Where("workshop_id = ?", workshopID).
		Preload("Group").
		Order("rank IS NULL, rank ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	return entries, nil
}

type groupStanding struct {
	group     models.Group
	total     int
	completed int
}

// Recompute rebuilds every group's entry from completed submissions. A task
// counts once per group, with its best score.
func (s *LeaderboardService) Recompute(ctx context.Context, workshopID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var groups []models.Group
		if err := tx.Where("workshop_id = ?", workshopID).Find(&groups).Error; err != nil {
			return fmt.Errorf("load groups: %w", err)
		}

		var subs []models.Submission
		err := tx.Joins("JOIN workshop_tasks ON workshop_tasks.id = team_task_submissions.task_id").
			Where("workshop_tasks.workshop_id = ? AND team_task_submissions.status = ?", workshopID, models.StatusCompleted).
			Find(&subs).Error
		if err != nil {
			return fmt.Errorf("load completed submissions: %w", err)
		}

		best := make(map[uuid.UUID]map[uuid.UUID]int)
		for _, sub := range subs {
			if best[sub.GroupID] == nil {
				best[sub.GroupID] = make(map[uuid.UUID]int)
			}
			score := 0
			if sub.Score != nil {
				score = *sub.Score
			}
			if prev, ok := best[sub.GroupID][sub.TaskID]; !ok || score > prev {
				best[sub.GroupID][sub.TaskID] = score
			}
		}

		standings := make([]groupStanding, 0, len(groups))
		for _, g := range groups {
			st := groupStanding{group: g}
			for _, score := range best[g.ID] {
				st.total += score
				st.completed++
			}
			standings = append(standings, st)
		}
		rankStandings(standings)

		for i, st := range standings {
			rank := i + 1
			entry := models.LeaderboardEntry{WorkshopID: workshopID, GroupID: st.group.ID}
			if err := tx.Where("workshop_id = ? AND group_id = ?", workshopID, st.group.ID).
				FirstOrInit(&entry).Error; err != nil {
				return err
			}
			entry.Rank = &rank
			entry.TotalScore = st.total
			entry.TasksCompleted = st.completed
			if err := tx.Save(&entry).Error; err != nil {
				return fmt.Errorf("save leaderboard entry: %w", err)
			}
		}
		return nil
	})
}

func rankStandings(standings []groupStanding) {
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.total != b.total {
			return a.total > b.total
		}
		if a.completed != b.completed {
			return a.completed > b.completed
		}
		return a.group.GroupName < b.group.GroupName
	})
}
