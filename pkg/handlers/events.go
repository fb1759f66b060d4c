package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"project-pulse-backend/pkg/config"
	"project-pulse-backend/pkg/database"
	"project-pulse-backend/pkg/realtime"
	"project-pulse-backend/pkg/utils"
)

// EventsHandler streams change events over Server-Sent Events
type EventsHandler struct {
	config *config.Config
	db     database.Interface
	hub    *realtime.Hub
}

// NewEventsHandler creates an events handler
func NewEventsHandler(cfg *config.Config, db database.Interface, hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{config: cfg, db: db, hub: hub}
}

// heartbeatInterval keeps proxies from closing idle streams
const heartbeatInterval = 25 * time.Second

// Stream handles GET /api/events?board_id=. Each event carries a
// monotonic version, so clients can apply deliveries idempotently and
// refetch when they detect a gap.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(h.db, w, r); !ok {
		return
	}

	boardID := r.URL.Query().Get("board_id")
	if boardID != "" {
		if _, err := h.db.GetBoard(boardID); err != nil {
			if isNotFound(err) {
				utils.WriteNotFoundResponse(w, "Board not found")
				return
			}
			utils.WriteInternalServerErrorResponse(w, "Failed to load board: "+err.Error())
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.WriteInternalServerErrorResponse(w, "Streaming not supported by this connection")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	sub := h.hub.Subscribe(boardID)
	defer sub.Close()

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case event, open := <-sub.Events():
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "id: %d\nevent: change\ndata: %s\n\n", event.Version, payload)
			flusher.Flush()
		}
	}
}
