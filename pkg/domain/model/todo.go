package model

import (
	"sort"
	"time"

	"github.com/lexdesk/casework/pkg/domain/types"
)

// Todo is a unit of trackable work, optionally tied to a case and to assigned users
type Todo struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	StartDate   types.Date
	EndDate     types.Date
	Priority    types.Priority
	Status      types.TodoStatus
	Archived    bool
	AssigneeIDs []string // usernames
	CaseID      *int64
}

// HasAssignee reports whether username is among the todo's assignees
func (t *Todo) HasAssignee(username string) bool {
	for _, a := range t.AssigneeIDs {
		if a == username {
			return true
		}
	}
	return false
}

// BelongsToCase reports whether the todo is attached to the given case
func (t *Todo) BelongsToCase(caseID int64) bool {
	return t.CaseID != nil && *t.CaseID == caseID
}

// TodoRequest carries the fields a caller may set when creating a todo.
// Status and archived flag are not part of it: new todos always start as
// NOT_STARTED and unarchived.
type TodoRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	StartDate   types.Date     `json:"startDate"`
	EndDate     types.Date     `json:"endDate"`
	Priority    types.Priority `json:"priority"`
	AssigneeIDs []string       `json:"toDoAssignees,omitempty"`
	CaseID      *int64         `json:"caseId,omitempty"`
}

// TodoUpdateRequest fully replaces the mutable fields of a todo
type TodoUpdateRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	StartDate   types.Date       `json:"startDate"`
	EndDate     types.Date       `json:"endDate"`
	AssigneeIDs []string         `json:"toDoAssignees"`
	Priority    types.Priority   `json:"priority"`
	Status      types.TodoStatus `json:"status"`
	Archived    bool             `json:"archived"`
}

// TodoResponse is the externally visible shape of a todo
type TodoResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created"`
	StartDate   types.Date       `json:"startDate"`
	EndDate     types.Date       `json:"endDate"`
	Priority    types.Priority   `json:"priority"`
	Status      types.TodoStatus `json:"status"`
	AssigneeIDs []string         `json:"toDoAssignees"`
	CaseID      *int64           `json:"caseId,omitempty"`
	Archived    bool             `json:"archived"`
}

// NewTodoResponse maps a todo to its response shape
func NewTodoResponse(t *Todo) *TodoResponse {
	assignees := UniqueStrings(t.AssigneeIDs)
	sort.Strings(assignees)

	var caseID *int64
	if t.CaseID != nil {
		id := *t.CaseID
		caseID = &id
	}

	return &TodoResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Priority:    t.Priority,
		Status:      t.Status,
		AssigneeIDs: assignees,
		CaseID:      caseID,
		Archived:    t.Archived,
	}
}

// NewTodoResponses maps a list of todos to their response shape
func NewTodoResponses(todos []*Todo) []*TodoResponse {
	out := make([]*TodoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, NewTodoResponse(t))
	}
	return out
}

// UniqueStrings removes duplicate strings while preserving order
func UniqueStrings(s []string) []string {
	seen := make(map[string]struct{}, len(s))
	result := make([]string, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}
	return result
}
