package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/lexdesk/casework/pkg/domain/model"
)

type clientRequest struct {
	Name     string   `json:"name"`
	IDPrefix int64    `json:"idPrefix"`
	UserIDs  []string `json:"users"`
}

type clientResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IDPrefix  int64     `json:"idPrefix"`
	UserIDs   []string  `json:"users"`
	CreatedAt time.Time `json:"created"`
}

func newClientResponse(c *model.Client) clientResponse {
	users := c.UserIDs
	if users == nil {
		users = []string{}
	}
	return clientResponse{
		ID:        c.ID,
		Name:      c.Name,
		IDPrefix:  c.IDPrefix,
		UserIDs:   users,
		CreatedAt: c.CreatedAt,
	}
}

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.uc.Client.ListClients(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		resp = append(resp, newClientResponse(c))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) getClient(w http.ResponseWriter, r *http.Request) {
	idPrefix, err := pathInt64(r, "idPrefix")
	if err != nil {
		handleError(w, r, err)
		return
	}

	c, err := s.uc.Client.GetClientByIDPrefix(r.Context(), idPrefix)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newClientResponse(c))
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	c, err := s.uc.Client.CreateClient(r.Context(), req.Name, req.IDPrefix, req.UserIDs)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/clients/"+strconv.FormatInt(c.IDPrefix, 10))
	writeJSON(w, r, http.StatusCreated, newClientResponse(c))
}

func (s *Server) deleteClient(w http.ResponseWriter, r *http.Request) {
	idPrefix, err := pathInt64(r, "idPrefix")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.Client.DeleteClient(r.Context(), idPrefix); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
