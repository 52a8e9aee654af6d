// Package api exposes the settlement engine over a JSON HTTP interface.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/settler/internal/auth"
	"github.com/mmynk/settler/internal/ledger"
	"github.com/mmynk/settler/internal/service"
	"github.com/mmynk/settler/internal/storage"
)

// Server holds the services behind the HTTP handlers.
type Server struct {
	groups      *service.GroupService
	splits      *service.SplitService
	settlements *service.SettlementService
	jwt         *auth.JWTManager
}

// NewServer creates a Server backed by the given store.
func NewServer(store storage.Store, jwt *auth.JWTManager) *Server {
	return &Server{
		groups:      service.NewGroupService(store),
		splits:      service.NewSplitService(store),
		settlements: service.NewSettlementService(store),
		jwt:         jwt,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Use(RequestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/v1/auth/session", s.handleCreateSession)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(s.jwt))

		r.Post("/v1/groups", s.handleCreateGroup)
		r.Get("/v1/groups/{groupID}", s.handleGetGroup)
		r.Post("/v1/groups/{groupID}/members", s.handleAddMembers)
		r.Get("/v1/groups/{groupID}/splits", s.handleListSplits)
		r.Post("/v1/groups/{groupID}/splits", s.handleCreateSplit)
		r.Get("/v1/groups/{groupID}/settlement", s.handleGroupSettlement)
		r.Get("/v1/splits/{splitID}", s.handleGetSplit)
		r.Delete("/v1/splits/{splitID}", s.handleDeleteSplit)
		r.Post("/v1/splits/{splitID}/payments", s.handleRecordPayment)
		r.Get("/v1/me/settlement", s.handleUserSummary)
		r.Get("/v1/me/groups", s.handleListMyGroups)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var vErr *ledger.ValidationError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &vErr):
		// The stored records themselves are inconsistent, not the request.
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("Internal error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}
