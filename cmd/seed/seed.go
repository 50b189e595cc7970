package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"eventhub/models"
	"eventhub/services"

	"gorm.io/gorm"
)

// SeedFile is the JSON layout accepted by the seed tool.
type SeedFile struct {
	Users     []SeedUser     `json:"users"`
	Workshops []SeedWorkshop `json:"workshops"`
}

type SeedUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	IsAdmin  bool   `json:"is_admin"`
}

type SeedWorkshop struct {
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	BannerURL   *string     `json:"banner_url"`
	Duration    *string     `json:"duration"`
	Tasks       []SeedTask  `json:"tasks"`
	Groups      []SeedGroup `json:"groups"`
	Judges      []string    `json:"judges"`
}

type SeedTask struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	TaskOrder    int    `json:"task_order"`
	Points       int    `json:"points"`
	TimerMinutes *int   `json:"timer_minutes"`
	IsActive     bool   `json:"is_active"`
}

type SeedGroup struct {
	GroupName string  `json:"group_name"`
	GroupCode string  `json:"group_code"`
	LogoURL   *string `json:"logo_url"`
	Slogan    *string `json:"slogan"`
}

type Summary struct {
	Users, Workshops, Tasks, Groups, Judges int
}

func parseSeed(r io.Reader) (*SeedFile, error) {
	var seed SeedFile
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, w := range seed.Workshops {
		if w.Title == "" {
			return nil, fmt.Errorf("workshop %d: title is required", i+1)
		}
	}
	return &seed, nil
}

// importSeed writes users first so workshops can name their judges.
// Existing usernames are reused, not duplicated.
func importSeed(ctx context.Context, db *gorm.DB, store *services.Store, seed *SeedFile, logger *slog.Logger) (Summary, error) {
	var sum Summary
	byName := make(map[string]*models.User)

	for _, u := range seed.Users {
		user, err := store.CreateUser(ctx, u.Username, u.Email, u.Password, u.FullName)
		if errors.Is(err, services.ErrUsernameTaken) {
			var existing models.User
			if err := db.WithContext(ctx).Where("username = ?", u.Username).First(&existing).Error; err != nil {
				return sum, fmt.Errorf("load user %s: %w", u.Username, err)
			}
			byName[u.Username] = &existing
			logger.Info("user exists, skipping", "username", u.Username)
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("create user %s: %w", u.Username, err)
		}
		if u.IsAdmin {
			if err := db.WithContext(ctx).Model(user).Update("is_admin", true).Error; err != nil {
				return sum, fmt.Errorf("promote %s: %w", u.Username, err)
			}
		}
		byName[u.Username] = user
		sum.Users++
	}

	for _, sw := range seed.Workshops {
		w := &models.Workshop{
			Title:       sw.Title,
			Description: sw.Description,
			BannerURL:   sw.BannerURL,
			Duration:    sw.Duration,
		}
		if err := store.CreateWorkshop(ctx, w); err != nil {
			return sum, fmt.Errorf("create workshop %q: %w", sw.Title, err)
		}
		sum.Workshops++
		logger.Info("workshop imported", "title", w.Title, "id", w.ID)

		for _, st := range sw.Tasks {
			task := &models.Task{
				WorkshopID:   w.ID,
				Title:        st.Title,
				Description:  st.Description,
				TaskOrder:    st.TaskOrder,
				Points:       st.Points,
				TimerMinutes: st.TimerMinutes,
				IsActive:     st.IsActive,
			}
			if err := store.CreateTask(ctx, task); err != nil {
				return sum, fmt.Errorf("create task %q: %w", st.Title, err)
			}
			sum.Tasks++
		}

		for _, sg := range sw.Groups {
			group, err := store.CreateGroup(ctx, w.ID, sg.GroupName, sg.GroupCode)
			if err != nil {
				return sum, fmt.Errorf("create group %q: %w", sg.GroupName, err)
			}
			if sg.LogoURL != nil || sg.Slogan != nil {
				err := db.WithContext(ctx).Model(group).Updates(map[string]interface{}{
					"logo_url": sg.LogoURL,
					"slogan":   sg.Slogan,
				}).Error
				if err != nil {
					return sum, fmt.Errorf("update group %q: %w", sg.GroupName, err)
				}
			}
			logger.Info("group imported", "workshop", w.Title, "name", group.GroupName, "code", group.GroupCode)
			sum.Groups++
		}

		for _, name := range sw.Judges {
			user, ok := byName[name]
			if !ok {
				return sum, fmt.Errorf("judge %q is not a seeded user", name)
			}
			if err := store.AddJudge(ctx, w.ID, user.ID); err != nil {
				return sum, fmt.Errorf("add judge %q: %w", name, err)
			}
			sum.Judges++
		}
	}
	return sum, nil
}
