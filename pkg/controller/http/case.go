package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/lexdesk/casework/pkg/domain/model"
)

type caseRequest struct {
	Name     string   `json:"name"`
	ClientID *int64   `json:"clientId,omitempty"`
	UserIDs  []string `json:"users"`
}

type caseResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ClientID  *int64    `json:"clientId,omitempty"`
	UserIDs   []string  `json:"users"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

func newCaseResponse(c *model.Case) caseResponse {
	users := c.UserIDs
	if users == nil {
		users = []string{}
	}
	return caseResponse{
		ID:        c.ID,
		Name:      c.Name,
		ClientID:  c.ClientID,
		UserIDs:   users,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (s *Server) listCases(w http.ResponseWriter, r *http.Request) {
	cases, err := s.uc.Case.ListCases(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]caseResponse, 0, len(cases))
	for _, c := range cases {
		resp = append(resp, newCaseResponse(c))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) getCase(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	c, err := s.uc.Case.GetCase(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newCaseResponse(c))
}

func (s *Server) createCase(w http.ResponseWriter, r *http.Request) {
	var req caseRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	c, err := s.uc.Case.CreateCase(r.Context(), req.Name, req.ClientID, req.UserIDs)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/cases/"+strconv.FormatInt(c.ID, 10))
	writeJSON(w, r, http.StatusCreated, newCaseResponse(c))
}

func (s *Server) updateCase(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req caseRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	c, err := s.uc.Case.UpdateCase(r.Context(), id, req.Name, req.ClientID, req.UserIDs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newCaseResponse(c))
}

func (s *Server) deleteCase(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.Case.DeleteCase(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
