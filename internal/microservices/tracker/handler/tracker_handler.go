package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ghost-kitchen/internal/common/httpx"
	"ghost-kitchen/internal/microservices/tracker/service"
)

type TrackerHandler struct {
	service service.TrackerServiceInterface
}

func NewTrackerHandler(svc service.TrackerServiceInterface) *TrackerHandler {
	return &TrackerHandler{service: svc}
}

// Routes registers the tracking endpoints. Watch streams, so it must not sit
// behind a request timeout.
func (h *TrackerHandler) Routes(r chi.Router) {
	r.Get("/tracking/{ticket}", h.GetStatus)
}

func (h *TrackerHandler) StreamRoutes(r chi.Router) {
	r.Get("/tracking/{ticket}/watch", h.Watch)
}

func (h *TrackerHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Track(r.Context(), chi.URLParam(r, "ticket"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

// Watch sends one server-sent "order" event per view change.
func (h *TrackerHandler) Watch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.WriteProblem(w, http.StatusInternalServerError, "streaming_unsupported", "response writer cannot flush")
		return
	}
	views, err := h.service.Watch(r.Context(), chi.URLParam(r, "ticket"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for v := range views {
		b, err := json.Marshal(v)
		if err != nil {
			return
		}
		if _, err := fmt.Fprintf(w, "event: order\ndata: %s\n\n", b); err != nil {
			return
		}
		flusher.Flush()
	}
	_, _ = fmt.Fprint(w, "event: done\ndata: {}\n\n")
	flusher.Flush()
}
