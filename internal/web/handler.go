package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/worklane/worklane/internal/models"
	"github.com/worklane/worklane/internal/notify"
	"github.com/worklane/worklane/internal/session"
	"github.com/worklane/worklane/internal/stats"
	"github.com/worklane/worklane/internal/timer"
	"github.com/worklane/worklane/pkg/timeutil"

	"github.com/rs/zerolog"
)

const dateFormat = "2006-01-02"

type Handler struct {
	timers     *timer.Service
	aggregator *stats.Aggregator
	feed       *session.Feed
	hub        *notify.Hub
	logger     zerolog.Logger
}

func NewHandler(timers *timer.Service, aggregator *stats.Aggregator, feed *session.Feed, hub *notify.Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		timers:     timers,
		aggregator: aggregator,
		feed:       feed,
		hub:        hub,
		logger:     logger.With().Str("component", "web").Logger(),
	}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/timer/status", h.handleStatus)
	mux.HandleFunc("/api/timer/start", h.handleStart)
	mux.HandleFunc("/api/timer/pause", h.handlePause)
	mux.HandleFunc("/api/timer/resume", h.handleResume)
	mux.HandleFunc("/api/timer/stop", h.handleStop)
	mux.HandleFunc("/api/stats", h.handleStats)
	mux.HandleFunc("/api/activities", h.handleActivities)
	mux.HandleFunc("/api/events", h.handleEvents)

	mux.HandleFunc("/health", h.handleHealth)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	status, err := h.timers.Status(ownerID)
	if err != nil {
		h.respondTimerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req models.StartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	active, err := h.timers.Start(ownerID, req)
	if err != nil {
		h.respondTimerError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, active)
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req models.PauseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.timers.Pause(ownerID, req.Reason)
	if err != nil {
		h.respondTimerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	result, err := h.timers.Resume(ownerID)
	if err != nil {
		h.respondTimerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	entry, err := h.timers.Stop(ownerID)
	if err != nil {
		h.respondTimerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	period, err := h.resolvePeriod(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshot, err := h.aggregator.Snapshot(ownerID, period)
	if err != nil {
		h.logger.Error().Err(err).Str("owner", ownerID).Msg("stats aggregation failed")
		respondError(w, http.StatusInternalServerError, "failed to aggregate stats")
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleActivities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	period, err := h.resolvePeriod(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}

	feed, err := h.feed.Query(ownerID, period, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("owner", ownerID).Msg("activity query failed")
		respondError(w, http.StatusInternalServerError, "failed to query activities")
		return
	}
	respondJSON(w, http.StatusOK, feed)
}

// handleEvents streams refresh signals as server-sent events. Clients
// re-pull status on every "refresh" event instead of polling every second.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.hub == nil {
		respondError(w, http.StatusNotFound, "event stream not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	signals, cancel := h.hub.Subscribe()
	defer cancel()

	// The stream outlives the server's write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-signals:
			fmt.Fprint(w, "event: refresh\ndata: {}\n\n")
			flusher.Flush()
		}
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resolvePeriod reads either a named period or an explicit
// start_date/end_date pair (inclusive dates). Defaults to the current week.
func (h *Handler) resolvePeriod(r *http.Request) (models.Period, error) {
	query := r.URL.Query()
	startStr := query.Get("start_date")
	endStr := query.Get("end_date")

	if startStr == "" && endStr == "" {
		periodType := query.Get("period")
		if periodType == "" {
			periodType = "week"
		}
		return h.aggregator.Period(periodType)
	}

	start, err := time.ParseInLocation(dateFormat, startStr, time.Local)
	if err != nil {
		return models.Period{}, errBadDate("start_date", startStr)
	}
	end, err := time.ParseInLocation(dateFormat, endStr, time.Local)
	if err != nil {
		return models.Period{}, errBadDate("end_date", endStr)
	}
	if end.Before(start) {
		return models.Period{}, errRange(startStr, endStr)
	}

	return models.Period{
		Start: timeutil.DayStart(start),
		End:   timeutil.DayStart(end).AddDate(0, 0, 1),
		Type:  "custom",
	}, nil
}

// respondTimerError maps the timer error taxonomy onto HTTP status codes.
func (h *Handler) respondTimerError(w http.ResponseWriter, err error) {
	switch {
	case timer.IsConflict(err):
		respondError(w, http.StatusConflict, err.Error())
	case timer.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case timer.IsInvalidState(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error().Err(err).Msg("timer operation failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
