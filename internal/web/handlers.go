package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rosterd/rosterd/internal/roster"
)

type healthResponse struct {
	Status       string     `json:"status"`
	Members      int        `json:"members"`
	SyncRunning  bool       `json:"syncRunning"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
}

// handleHealth reports liveness plus roster freshness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:      "ok",
		Members:     s.service.MemberCount(),
		SyncRunning: s.service.Busy(),
	}
	if at := s.service.SyncedAt(); !at.IsZero() {
		resp.LastSyncedAt = &at
	}

	writeJSON(w, http.StatusOK, resp)
}

type membersResponse struct {
	Members []roster.Member `json:"members"`
	Count   int             `json:"count"`
}

// handleListMembers returns the cached roster in sheet order.
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members := s.service.Members()

	writeJSON(w, http.StatusOK, membersResponse{
		Members: members,
		Count:   len(members),
	})
}

// handleGetMember returns a single member by id.
func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "memberID")

	member, err := s.service.Member(id)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

// handleSync triggers a sync run and waits for its result.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Sync(r.Context())
	if err != nil {
		s.respondError(w, r, err, syncErrorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// syncErrorStatus picks the HTTP status for a failed sync.
func syncErrorStatus(err error) int {
	switch {
	case errors.Is(err, roster.ErrSyncRunning):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		// Fetch and parse failures are upstream sheet problems.
		return http.StatusBadGateway
	}
}

// handleLastSync returns the result of the most recent completed sync.
func (s *Server) handleLastSync(w http.ResponseWriter, r *http.Request) {
	result := s.service.LastResult()
	if result == nil {
		writeError(w, http.StatusNotFound, "no sync has completed yet")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type historyResponse struct {
	Runs  []roster.SyncResult `json:"runs"`
	Count int                 `json:"count"`
}

// handleSyncHistory returns recent completed syncs, newest first.
func (s *Server) handleSyncHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs := s.service.History(limit)
	writeJSON(w, http.StatusOK, historyResponse{Runs: runs, Count: len(runs)})
}

// handlePreviewSync reports what a sync of the current sheet would do
// without writing anything.
func (s *Server) handlePreviewSync(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Preview(r.Context())
	if err != nil {
		s.respondError(w, r, err, syncErrorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}
