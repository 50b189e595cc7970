package views

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"eventhub/metrics"
	"eventhub/models"
	"eventhub/services"
	"eventhub/session"

	"github.com/google/uuid"
)

// CatalogStore is what the catalog reads and writes.
type CatalogStore interface {
	ListWorkshops(ctx context.Context) ([]models.Workshop, error)
	RegisteredWorkshopIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Register(ctx context.Context, userID, workshopID uuid.UUID) error
}

const (
	ActionView     = "view"
	ActionRegister = "register"

	registerRedirectDelayMS = 1000
)

// DetailPath is the route of a workshop's detail view.
func DetailPath(workshopID uuid.UUID) string {
	return "/workshops/" + workshopID.String()
}

type WorkshopCard struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	BannerURL   *string   `json:"banner_url"`
	Duration    *string   `json:"duration"`
	Registered  bool      `json:"registered"`
	Action      string    `json:"action"`
}

type CatalogSnapshot struct {
	Loading   bool           `json:"loading"`
	Workshops []WorkshopCard `json:"workshops"`
	Redirect  *Redirect      `json:"redirect,omitempty"`
	Notices   []Notice       `json:"notices"`
}

// CatalogView lists workshops and registers the signed-in user.
type CatalogView struct {
	store  CatalogStore
	sess   *session.Session
	logger *slog.Logger

	mu         sync.Mutex
	loading    bool
	workshops  []models.Workshop
	registered map[uuid.UUID]bool
	redirect   *Redirect
	notices    noticeBoard
}

func NewCatalogView(store CatalogStore, sess *session.Session, logger *slog.Logger) *CatalogView {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogView{
		store:      store,
		sess:       sess,
		logger:     logger,
		workshops:  []models.Workshop{},
		registered: make(map[uuid.UUID]bool),
	}
}

// Mount loads the workshops and, for a signed-in user, their registrations.
func (v *CatalogView) Mount(ctx context.Context) {
	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.loading = false
		v.mu.Unlock()
	}()

	workshops, err := v.store.ListWorkshops(ctx)
	if err != nil {
		v.logger.Error("Error fetching workshops", "error", err)
		v.notices.error("Failed to load workshops")
	} else {
		v.mu.Lock()
		v.workshops = workshops
		v.mu.Unlock()
	}

	if v.sess == nil {
		return
	}

	ids, err := v.store.RegisteredWorkshopIDs(ctx, v.sess.UserID)
	if err != nil {
		v.logger.Error("Error fetching registered workshops", "user_id", v.sess.UserID, "error", err)
		return
	}

	v.mu.Lock()
	v.registered = make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		v.registered[id] = true
	}
	v.mu.Unlock()
}

// Register enrolls the session user in a workshop. The caller gates it on a
// session; without one it does nothing.
func (v *CatalogView) Register(ctx context.Context, workshopID uuid.UUID) {
	if v.sess == nil {
		return
	}

	v.mu.Lock()
	already := v.registered[workshopID]
	v.mu.Unlock()

	if already {
		v.notices.info("You're already registered for this workshop")
		v.setRedirect(&Redirect{To: DetailPath(workshopID)})
		return
	}

	err := v.store.Register(ctx, v.sess.UserID, workshopID)
	if errors.Is(err, services.ErrAlreadyRegistered) {
		v.mu.Lock()
		v.registered[workshopID] = true
		v.mu.Unlock()
		v.notices.info("You're already registered for this workshop")
		v.setRedirect(&Redirect{To: DetailPath(workshopID)})
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		v.notices.error("Workshop not found")
		return
	}
	if err != nil {
		v.logger.Error("Error registering for workshop", "workshop_id", workshopID, "error", err)
		v.notices.error("Failed to register for workshop")
		return
	}

	metrics.Registrations.Inc()
	v.mu.Lock()
	v.registered[workshopID] = true
	v.mu.Unlock()
	v.notices.success("Successfully registered for workshop!")
	v.setRedirect(&Redirect{To: DetailPath(workshopID), DelayMS: registerRedirectDelayMS})
}

// IsRegistered reports whether the loaded registrations include workshopID.
func (v *CatalogView) IsRegistered(workshopID uuid.UUID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.registered[workshopID]
}

func (v *CatalogView) setRedirect(r *Redirect) {
	v.mu.Lock()
	v.redirect = r
	v.mu.Unlock()
}

// Snapshot renders the view state and drains pending notices.
func (v *CatalogView) Snapshot() CatalogSnapshot {
	v.mu.Lock()
	cards := make([]WorkshopCard, 0, len(v.workshops))
	for _, w := range v.workshops {
		card := WorkshopCard{
			ID:          w.ID,
			Title:       w.Title,
			Description: w.Description,
			BannerURL:   w.BannerURL,
			Duration:    w.Duration,
			Registered:  v.registered[w.ID],
			Action:      ActionRegister,
		}
		if card.Registered {
			card.Action = ActionView
		}
		cards = append(cards, card)
	}
	snap := CatalogSnapshot{
		Loading:   v.loading,
		Workshops: cards,
		Redirect:  v.redirect,
	}
	v.mu.Unlock()

	snap.Notices = v.notices.drain()
	return snap
}
