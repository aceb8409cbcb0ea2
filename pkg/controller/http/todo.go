package http

import (
	"net/http"
	"strconv"

	"github.com/lexdesk/casework/pkg/domain/model"
)

type sizeResponse struct {
	Size int64 `json:"size"`
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	username, err := actor(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	todos, err := s.uc.Todo.ListVisible(r.Context(), username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, todos)
}

func (s *Server) listAssignedTodos(w http.ResponseWriter, r *http.Request) {
	username, err := actor(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	todos, err := s.uc.Todo.ListAssigned(r.Context(), username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, todos)
}

func (s *Server) countTodos(w http.ResponseWriter, r *http.Request) {
	n, err := s.uc.Todo.Count(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sizeResponse{Size: n})
}

func (s *Server) getTodo(w http.ResponseWriter, r *http.Request) {
	username, err := actor(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	id, err := pathInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	todo, err := s.uc.Todo.Get(r.Context(), username, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, todo)
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	username, err := actor(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req model.TodoRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	todo, err := s.uc.Todo.Create(r.Context(), username, req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/todos/"+strconv.FormatInt(todo.ID, 10))
	writeJSON(w, r, http.StatusCreated, todo)
}

func (s *Server) updateTodo(w http.ResponseWriter, r *http.Request) {
	username, err := actor(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	id, err := pathInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req model.TodoUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	todo, err := s.uc.Todo.Update(r.Context(), username, id, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, todo)
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	username, err := actor(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	id, err := pathInt64(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.Todo.Delete(r.Context(), username, id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
