// handlers/live.go - Live workshop detail view over a websocket
package handlers

import (
	"context"
	"log/slog"
	"time"

	"eventhub/metrics"
	"eventhub/session"
	"eventhub/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	// WebSocket timeouts
	writeWait  = 10 * time.Second // Time allowed to write a message
	pingPeriod = 15 * time.Second // Send pings at this interval

	sendBufferSize = 16
)

// LiveMessage is a server push. Type is "loading", "snapshot" or "error".
type LiveMessage struct {
	Type string                `json:"type"`
	Data *views.DetailSnapshot `json:"data,omitempty"`
	Err  string                `json:"error,omitempty"`
}

// ClientMessage is an action sent by the browser.
type ClientMessage struct {
	Type string `json:"type"`

	Code string `json:"code,omitempty"`

	TaskID   string   `json:"task_id,omitempty"`
	Text     string   `json:"text,omitempty"`
	FileURLs []string `json:"file_urls,omitempty"`

	Rating      int    `json:"rating,omitempty"`
	Content     string `json:"content,omitempty"`
	Suggestions string `json:"suggestions,omitempty"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpgradeLive only lets websocket handshakes through to LiveWorkshop.
func UpgradeLive(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// LiveWorkshop keeps one detail view mounted for the lifetime of the
// connection and pushes a fresh snapshot after every change.
func (h *Handler) LiveWorkshop() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		workshopID, err := uuid.Parse(conn.Params("id"))
		if err != nil {
			_ = conn.WriteJSON(LiveMessage{Type: "error", Err: "Invalid workshop id"})
			_ = conn.Close()
			return
		}
		sess, _ := conn.Locals("session").(*session.Session)
		h.serveLive(conn, sess, workshopID)
	})
}

type liveClient struct {
	conn   *websocket.Conn
	view   *views.DetailView
	send   chan LiveMessage
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

func (h *Handler) serveLive(conn *websocket.Conn, sess *session.Session, workshopID uuid.UUID) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &liveClient{
		conn:   conn,
		view:   views.NewDetailView(h.store, sess, workshopID, h.logger),
		send:   make(chan LiveMessage, sendBufferSize),
		ctx:    ctx,
		cancel: cancel,
		logger: h.logger.With("workshop_id", workshopID),
	}

	metrics.LiveViews.Inc()
	defer metrics.LiveViews.Dec()
	defer client.view.Unmount()
	defer cancel()

	go client.writePump()

	client.push(LiveMessage{Type: "loading"})
	// Subscribe before the first fetch so no change slips in between
	client.view.Subscribe(h.hub)
	client.view.Mount(ctx)
	client.pushSnapshot()

	go client.view.Listen(ctx, client.pushSnapshot)

	client.readPump()
}

// readPump applies client actions until the connection closes
func (lc *liveClient) readPump() {
	for {
		var msg ClientMessage
		if err := lc.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				lc.logger.Debug("live view read error", "error", err)
			}
			return
		}
		applyClientMessage(lc.ctx, lc.view, msg)
		lc.pushSnapshot()
	}
}

// writePump serializes writes and keeps the connection alive with pings
func (lc *liveClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = lc.conn.Close()
	}()

	for {
		select {
		case msg := <-lc.send:
			_ = lc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := lc.conn.WriteJSON(msg); err != nil {
				lc.logger.Debug("live view write error", "error", err)
				lc.cancel()
				return
			}
		case <-ticker.C:
			_ = lc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := lc.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				lc.cancel()
				return
			}
		case <-lc.ctx.Done():
			return
		}
	}
}

// push queues a message. Snapshots carry full state, so a full buffer just
// drops the message and a later snapshot supersedes it.
func (lc *liveClient) push(msg LiveMessage) {
	select {
	case lc.send <- msg:
	default:
		lc.logger.Warn("live view send buffer full, dropping message", "type", msg.Type)
	}
}

func (lc *liveClient) pushSnapshot() {
	snap := lc.view.Snapshot()
	lc.push(LiveMessage{Type: "snapshot", Data: &snap})
}

// applyClientMessage routes a browser action to the view. Unknown types are
// ignored.
func applyClientMessage(ctx context.Context, v *views.DetailView, msg ClientMessage) {
	switch msg.Type {
	case "join":
		v.JoinGroup(ctx, msg.Code)
	case "draft":
		if taskID, ok := parseTaskID(msg.TaskID); ok {
			v.SetDraft(taskID, msg.Text)
		}
	case "submit":
		// An unparsable id yields uuid.Nil, which the view reports as not found
		taskID, _ := parseTaskID(msg.TaskID)
		v.SubmitTask(ctx, taskID, msg.Text, msg.FileURLs)
	case "feedback":
		v.SubmitFeedback(ctx, views.FeedbackForm{
			Rating:      msg.Rating,
			Content:     msg.Content,
			Suggestions: msg.Suggestions,
		})
	case "mentorship":
		v.SubmitMentorship(ctx, views.MentorshipForm{
			Title:       msg.Title,
			Description: msg.Description,
		})
	case "refresh":
		v.Mount(ctx)
	}
}
