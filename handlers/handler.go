// handlers/handler.go - Shared handler dependencies
package handlers

import (
	"log/slog"

	"eventhub/gate"
	"eventhub/realtime"
	"eventhub/services"
	"eventhub/session"
	"eventhub/views"
)

var (
	_ views.CatalogStore = (*services.Store)(nil)
	_ views.DetailStore  = (*services.Store)(nil)
)

// Handler serves the portal's JSON and websocket endpoints.
type Handler struct {
	store      *services.Store
	sessions   *session.Manager
	gates      *gate.Registry
	hub        *realtime.Hub
	gallery    *views.Gallery
	logger     *slog.Logger
	production bool
}

type Options struct {
	Store      *services.Store
	Sessions   *session.Manager
	Gates      *gate.Registry
	Hub        *realtime.Hub
	Logger     *slog.Logger
	Production bool
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:      opts.Store,
		sessions:   opts.Sessions,
		gates:      opts.Gates,
		hub:        opts.Hub,
		gallery:    views.NewGallery(),
		logger:     logger,
		production: opts.Production,
	}
}
