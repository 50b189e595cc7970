// services/store.go - Composite store handed to the views
package services

import "gorm.io/gorm"

// Store bundles every service behind one value. Method sets do not overlap,
// so it satisfies each view's store interface directly.
type Store struct {
	*WorkshopService
	*GroupService
	*TaskService
	*LeaderboardService
	*FeedbackService
	*UserService
}

func NewStore(db *gorm.DB) *Store {
	leaderboard := NewLeaderboardService(db)
	return &Store{
		WorkshopService:    NewWorkshopService(db),
		GroupService:       NewGroupService(db),
		TaskService:        NewTaskService(db, leaderboard),
		LeaderboardService: leaderboard,
		FeedbackService:    NewFeedbackService(db),
		UserService:        NewUserService(db),
	}
}
