package http

import (
	"net/http"
	"sync/atomic"

	"chores/internal/core"
	applog "chores/internal/log"
	"chores/internal/store"
)

type createLogRequest struct {
	ChoreID string       `json:"choreId"`
	Partner core.Partner `json:"partner"`
	// Date is optional; today is used when empty.
	Date core.Date `json:"date"`
}

// handleListLogs lists logs newest first, optionally narrowed by ?date= and
// ?partner=.
func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	partner, err := parsePartnerParam(r, "partner")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logs, err := s.store.ListLogs(r.Context(), store.LogFilter{Date: date, Partner: partner})
	if err != nil {
		s.writeStoreError(w, r, applog.OpList, err)
		return
	}
	if logs == nil {
		logs = []core.ChoreLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// handleCreateLog records that a partner did a chore. The log's points are
// copied from the chore as it is now.
func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var req createLogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	created, err := s.board.RecordChore(r.Context(), sanitizeInput(req.ChoreID), req.Partner, req.Date)
	if err != nil {
		s.writeStoreError(w, r, applog.OpCreate, err)
		return
	}
	s.invalidateScores()
	atomic.AddInt64(&s.appMetrics.choresRecorded, 1)

	applog.NewStructuredLogger(applog.FromContext(r.Context())).LogChoreRecorded(r.Context(),
		created.ID, created.ChoreID, created.Partner.String(), created.Date.String(), created.Points)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteLog(r.Context(), id); err != nil {
		s.writeStoreError(w, r, applog.OpDelete, err)
		return
	}
	s.invalidateScores()

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Chore log deleted", applog.FieldLogID, id)
	w.WriteHeader(http.StatusNoContent)
}
