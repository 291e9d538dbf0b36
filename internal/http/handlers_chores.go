package http

import (
	"net/http"

	"chores/internal/core"
	applog "chores/internal/log"
)

type createChoreRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Points     int    `json:"points"`
	IsNegative bool   `json:"isNegative"`
}

func (s *Server) handleListChores(w http.ResponseWriter, r *http.Request) {
	chores, err := s.store.ListChores(r.Context())
	if err != nil {
		s.writeStoreError(w, r, applog.OpList, err)
		return
	}
	if chores == nil {
		chores = []core.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (s *Server) handleGetChore(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetChore(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreateChore(w http.ResponseWriter, r *http.Request) {
	var req createChoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	c := core.Chore{
		Name:       sanitizeInput(req.Name),
		Category:   sanitizeInput(req.Category),
		Points:     req.Points,
		IsNegative: req.IsNegative,
	}
	if err := c.Validate(); err != nil {
		s.writeStoreError(w, r, applog.OpCreate, err)
		return
	}

	created, err := s.store.CreateChore(r.Context(), c)
	if err != nil {
		s.writeStoreError(w, r, applog.OpCreate, err)
		return
	}
	s.invalidateScores()

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Chore added",
		applog.FieldChoreID, created.ID,
		applog.FieldChoreName, created.Name,
		applog.FieldPoints, created.SignedPoints())
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateChore(w http.ResponseWriter, r *http.Request) {
	var u core.ChoreUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		writeDecodeError(w, err)
		return
	}
	if u.Name != nil {
		name := sanitizeInput(*u.Name)
		u.Name = &name
	}
	if u.Category != nil {
		category := sanitizeInput(*u.Category)
		u.Category = &category
	}

	updated, err := s.store.UpdateChore(r.Context(), r.PathValue("id"), u)
	if err != nil {
		s.writeStoreError(w, r, applog.OpUpdate, err)
		return
	}
	s.invalidateScores()
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteChore removes a chore from the catalog. Logs recorded from it
// keep counting toward the scores.
func (s *Server) handleDeleteChore(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteChore(r.Context(), id); err != nil {
		s.writeStoreError(w, r, applog.OpDelete, err)
		return
	}
	s.invalidateScores()

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Chore deleted", applog.FieldChoreID, id)
	w.WriteHeader(http.StatusNoContent)
}

// writeDecodeError answers 422 when the body parsed but held an invalid
// value (a malformed date, say) and 400 otherwise.
func writeDecodeError(w http.ResponseWriter, err error) {
	if core.IsValidation(err) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
