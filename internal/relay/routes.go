package relay

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/relay/status", h.HandleStatus)
	r.Get("/relay/messages", h.HandleMessages)
}
