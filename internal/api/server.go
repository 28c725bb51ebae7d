// Package api exposes the scheduling engine to the dashboard over a
// small JSON HTTP surface.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"promoboard-engine/internal/common/config"
	engerrors "promoboard-engine/internal/common/errors"
	"promoboard-engine/internal/common/logger"
	"promoboard-engine/internal/engine"
	"promoboard-engine/internal/models"
)

type Server struct {
	session    *engine.Session
	logger     logger.Logger
	httpServer *http.Server
}

func NewServer(cfg config.ServerConfig, session *engine.Session, log logger.Logger) *Server {
	s := &Server{
		session: session,
		logger:  log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/v1/schedule/recommendations", s.handleRecommendations)
	mux.HandleFunc("/api/v1/schedule/day-summary", s.handleDaySummary)
	mux.HandleFunc("/api/v1/schedule/actuals", s.handleActuals)

	s.httpServer = &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: mux,
	}
	return s
}

// Handler exposes the routing mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("api server listening", map[string]interface{}{
		"address": s.httpServer.Addr,
	})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleRecommendations replaces the session's roster and visible week,
// reloads catalog and stats, and returns the rebuilt recommendation map.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, engerrors.NewInvalidRequestError("POST required"))
		return
	}

	var req recommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, engerrors.NewInvalidRequestError(err.Error()))
		return
	}

	for _, day := range req.WeekDays {
		if _, err := models.ParseDateKey(day); err != nil {
			s.writeError(w, http.StatusBadRequest,
				engerrors.NewInvalidRequestError("weekDays entries must be YYYY-MM-DD"))
			return
		}
	}

	slots := activeSlotsFromRequest(req.Roster, req.WorkSlots)
	s.session.Reload(r.Context(), req.Roster, req.WeekDays, slots)

	s.writeJSON(w, recommendationsResponse{
		SessionID:       s.session.ID(),
		Progress:        s.session.Progress(),
		Recommendations: s.session.Recommendations(),
	})
}

func (s *Server) handleDaySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, engerrors.NewInvalidRequestError("POST required"))
		return
	}

	var req daySummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, engerrors.NewInvalidRequestError(err.Error()))
		return
	}
	if _, err := models.ParseDateKey(req.Day); err != nil {
		s.writeError(w, http.StatusBadRequest,
			engerrors.NewInvalidRequestError("day must be YYYY-MM-DD"))
		return
	}

	s.writeJSON(w, daySummaryResponse{
		Summary: s.session.DaySummary(req.Day, req.Selections),
	})
}

func (s *Server) handleActuals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, engerrors.NewInvalidRequestError("POST required"))
		return
	}

	var req actualsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, engerrors.NewInvalidRequestError(err.Error()))
		return
	}
	if len(req.Dates) == 0 {
		s.writeError(w, http.StatusBadRequest, engerrors.NewInvalidRequestError("dates is required"))
		return
	}
	for _, day := range req.Dates {
		if _, err := models.ParseDateKey(day); err != nil {
			s.writeError(w, http.StatusBadRequest,
				engerrors.NewInvalidRequestError("dates entries must be YYYY-MM-DD"))
			return
		}
	}

	s.writeJSON(w, actualsResponse{
		Actuals: s.session.Actuals(r.Context(), req.Dates),
	})
}

// activeSlotsFromRequest rekeys work slots from promoter IDs to names.
func activeSlotsFromRequest(roster []models.Promoter, workSlots []models.WorkSlot) models.ActiveSlots {
	nameByID := make(map[string]string, len(roster))
	for _, p := range roster {
		nameByID[p.ID] = p.Name
	}

	slots := make(models.ActiveSlots)
	for _, slot := range workSlots {
		if !slot.Active {
			continue
		}
		name, ok := nameByID[slot.PromoterID]
		if !ok {
			continue
		}
		if slots[name] == nil {
			slots[name] = make(map[string]bool)
		}
		slots[name][slot.Date] = true
	}
	return slots
}

func (s *Server) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encode failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, stdErr *engerrors.StandardError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    string(stdErr.Code),
		Message: stdErr.Message,
		Details: stdErr.Details,
	})
}
