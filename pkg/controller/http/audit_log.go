package http

import (
	"net/http"
	"time"

	"github.com/lexdesk/casework/pkg/domain/types"
)

type auditRecordResponse struct {
	ID        string            `json:"id"`
	Action    types.AuditAction `json:"action"`
	Actor     string            `json:"username"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created"`
}

func (s *Server) listLogs(w http.ResponseWriter, r *http.Request) {
	username, err := actor(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	records, err := s.uc.AuditLog.ListLogs(r.Context(), username)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]auditRecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, auditRecordResponse{
			ID:        string(rec.ID),
			Action:    rec.Action,
			Actor:     rec.Actor,
			Message:   rec.Message,
			CreatedAt: rec.CreatedAt,
		})
	}
	writeJSON(w, r, http.StatusOK, resp)
}
