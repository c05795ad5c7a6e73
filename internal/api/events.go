package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"eventtracker/internal/domain"
	"eventtracker/internal/metrics"
	"eventtracker/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type EventHandler struct {
	store   store.EventStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewEventHandler(s store.EventStore, m *metrics.Metrics, logger *slog.Logger) *EventHandler {
	return &EventHandler{store: s, metrics: m, logger: logger}
}

type createEventRequest struct {
	EventType string          `json:"event_type"`
	Timestamp string          `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft, err := domain.ParseNewEvent(req.EventType, req.Timestamp, req.Payload)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.store.Insert(r.Context(), draft)
	if err != nil {
		h.logger.Error("failed to create event", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	h.metrics.EventsIngested.Inc()
	h.metrics.IngestedBytes.Add(float64(len(event.Payload)))
	h.logger.Debug("event stored", "event_id", event.ID, "event_type", event.EventType)

	respondJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := domain.ParseEventQuery(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.store.List(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to list events", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	respondJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	event, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get event", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if event == nil {
		respondError(w, http.StatusNotFound, "event not found")
		return
	}

	respondJSON(w, http.StatusOK, event)
}
