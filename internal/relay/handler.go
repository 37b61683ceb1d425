package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// StateReporter is the read side of the supervisor the ops surface needs.
type StateReporter interface {
	State() SessionState
}

// GreetedCounter is the read side of the greeted store.
type GreetedCounter interface {
	Count() int
}

type Handler struct {
	state   StateReporter
	greeted GreetedCounter
	archive Archive // nil when the traffic log is disabled
}

func NewHandler(state StateReporter, greeted GreetedCounter, archive Archive) *Handler {
	return &Handler{state: state, greeted: greeted, archive: archive}
}

// HandleStatus reports the session state and how many correspondents have
// been greeted.
func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"state":   h.state.State().String(),
		"greeted": h.greeted.Count(),
	})
}

// HandleMessages lists recent archive rows, newest first.
func (h *Handler) HandleMessages(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		http.Error(w, "archive disabled", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.archive.Recent(ctx, limit)
	if err != nil {
		http.Error(w, "archive error", http.StatusInternalServerError)
		return
	}

	type row struct {
		Correspondent string    `json:"correspondent"`
		Direction     string    `json:"direction"`
		Action        string    `json:"action"`
		Text          string    `json:"text"`
		CreatedAt     time.Time `json:"created_at"`
	}
	out := make([]row, 0, len(entries))
	for _, e := range entries {
		out = append(out, row{
			Correspondent: string(e.Correspondent),
			Direction:     string(e.Direction),
			Action:        e.Action,
			Text:          e.Text,
			CreatedAt:     e.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
