package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	server "github.com/lexdesk/casework/pkg/controller/http"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/lexdesk/casework/pkg/repository/memory"
	"github.com/lexdesk/casework/pkg/service/audit"
	"github.com/lexdesk/casework/pkg/usecase"
	"github.com/lexdesk/casework/pkg/utils/errutil"
	"github.com/m-mizutani/gt"
)

var testSecret = []byte("test-secret-for-http")

type testEnv struct {
	repo     *memory.Memory
	recorder *audit.Recorder
	authUC   *usecase.AuthUseCase
	srv      *server.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := memory.New()
	recorder := audit.NewRecorder()
	authUC := usecase.NewAuthUseCase(testSecret, usecase.WithIssuer("casework-test"))

	uc := usecase.New(repo, usecase.WithAuditEmitter(recorder), usecase.WithAuth(authUC))
	return &testEnv{
		repo:     repo,
		recorder: recorder,
		authUC:   authUC,
		srv:      server.New(uc),
	}
}

func (e *testEnv) addUser(t *testing.T, username string, roles ...types.Role) {
	t.Helper()
	gt.NoError(t, e.repo.User().Save(context.Background(), &model.User{Username: username, Roles: roles})).Required()
}

func (e *testEnv) do(t *testing.T, method, path, username, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if username != "" {
		token, err := e.authUC.IssueToken(context.Background(), username)
		gt.NoError(t, err).Required()
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v)).Required()
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", "")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
}

func TestAuthentication(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "alice", types.RoleAdmin)

	t.Run("missing token is rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/todos", "", "")
		gt.Value(t, rec.Code).Equal(http.StatusForbidden)

		body := decode[errutil.ErrorBody](t, rec)
		gt.Value(t, body.Message).Equal("Invalid credentials")
		gt.Value(t, body.Path).Equal("/api/v1/todos")
		gt.Value(t, body.Status).Equal(http.StatusForbidden)
	})

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		other := usecase.NewAuthUseCase([]byte("other-secret"), usecase.WithIssuer("casework-test"))
		token, err := other.IssueToken(context.Background(), "alice")
		gt.NoError(t, err).Required()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		env.srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusForbidden)
	})

	t.Run("valid token passes", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/todos", "alice", "")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
	})

	t.Run("health does not require a token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/health", "", "")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
	})
}

func TestNoAuthnMode(t *testing.T) {
	repo := memory.New()
	gt.NoError(t, repo.User().Save(context.Background(), &model.User{Username: "dev", Roles: []types.Role{types.RoleAdmin}})).Required()

	uc := usecase.New(repo, usecase.WithAuditEmitter(audit.NewRecorder()), usecase.WithAuth(usecase.NewNoAuthnUseCase("dev")))
	srv := server.New(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
}

func TestTodoLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "alice", types.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/api/v1/todos", "alice",
		`{"name":"Draft contract","description":"first pass","startDate":"2024-03-01","endDate":"2024-03-10","priority":"HIGH","toDoAssignees":["alice"]}`)
	gt.Value(t, rec.Code).Equal(http.StatusCreated)

	created := decode[model.TodoResponse](t, rec)
	gt.Value(t, created.Name).Equal("Draft contract")
	gt.Value(t, created.Status).Equal(types.TodoStatusNotStarted)
	gt.Value(t, created.Archived).Equal(false)
	gt.Value(t, rec.Header().Get("Location")).Equal("/api/v1/todos/" + jsonNumber(created.ID))

	rec = env.do(t, http.MethodGet, "/api/v1/todos/"+jsonNumber(created.ID), "alice", "")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, decode[model.TodoResponse](t, rec).ID).Equal(created.ID)

	rec = env.do(t, http.MethodGet, "/api/v1/todos/assigned", "alice", "")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Array(t, decode[[]model.TodoResponse](t, rec)).Length(1)

	rec = env.do(t, http.MethodPut, "/api/v1/todos/"+jsonNumber(created.ID), "alice",
		`{"name":"Draft contract v2","startDate":"2024-03-01","endDate":"2024-03-12","priority":"LOW","status":"IN_PROGRESS","toDoAssignees":[],"archived":true}`)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	updated := decode[model.TodoResponse](t, rec)
	gt.Value(t, updated.Status).Equal(types.TodoStatusInProgress)
	gt.Value(t, updated.Archived).Equal(true)

	// archived todos drop out of the default listing but still count
	rec = env.do(t, http.MethodGet, "/api/v1/todos", "alice", "")
	gt.Array(t, decode[[]model.TodoResponse](t, rec)).Length(0)

	rec = env.do(t, http.MethodGet, "/api/v1/todos/size", "alice", "")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, decode[map[string]int64](t, rec)["size"]).Equal(int64(1))

	rec = env.do(t, http.MethodDelete, "/api/v1/todos/"+jsonNumber(created.ID), "alice", "")
	gt.Value(t, rec.Code).Equal(http.StatusNoContent)

	rec = env.do(t, http.MethodGet, "/api/v1/todos/"+jsonNumber(created.ID), "alice", "")
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestTodoErrors(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "alice", types.RoleAdmin)

	t.Run("delete of missing todo", func(t *testing.T) {
		env.recorder.Reset()
		rec := env.do(t, http.MethodDelete, "/api/v1/todos/999", "alice", "")
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
		gt.Value(t, decode[errutil.ErrorBody](t, rec).Message).Equal("Failed deleting todo, id: 999")

		records := env.recorder.Records()
		gt.Array(t, records).Length(1).Required()
		gt.Value(t, records[0].Action).Equal(types.AuditDeleteTodoFailed)
	})

	t.Run("update of missing todo", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/v1/todos/42", "alice",
			`{"name":"x","priority":"LOW","status":"DONE"}`)
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/todos", "alice", `{"name":`)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("invalid todo", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/todos", "alice",
			`{"name":"","priority":"LOW"}`)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
		gt.Value(t, decode[errutil.ErrorBody](t, rec).Message).Equal("Failed creating todo")
	})

	t.Run("non numeric id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/todos/abc", "alice", "")
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("unknown actor", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/todos", "mallory", "")
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func TestListVisibleByScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "alice", types.RoleJurist)
	env.addUser(t, "bob", types.RoleJurist, types.RolePartner)

	c, err := env.repo.Case().Create(ctx, &model.Case{Name: "Estate", UserIDs: []string{"alice"}})
	gt.NoError(t, err).Required()

	for _, td := range []*model.Todo{
		{Name: "in case", CaseID: &c.ID, Priority: types.PriorityLow, Status: types.TodoStatusNotStarted},
		{Name: "outside", Priority: types.PriorityLow, Status: types.TodoStatusNotStarted},
	} {
		_, err := env.repo.Todo().Save(ctx, td)
		gt.NoError(t, err).Required()
	}

	rec := env.do(t, http.MethodGet, "/api/v1/todos", "alice", "")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	aliceTodos := decode[[]model.TodoResponse](t, rec)
	gt.Array(t, aliceTodos).Length(1).Required()
	gt.Value(t, aliceTodos[0].Name).Equal("in case")

	rec = env.do(t, http.MethodGet, "/api/v1/todos", "bob", "")
	gt.Array(t, decode[[]model.TodoResponse](t, rec)).Length(2)
}

func TestCasesAndClients(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "alice", types.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/api/v1/clients", "alice", `{"name":"Acme","idPrefix":1001,"users":["alice"]}`)
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	gt.Value(t, rec.Header().Get("Location")).Equal("/api/v1/clients/1001")

	rec = env.do(t, http.MethodPost, "/api/v1/clients", "alice", `{"name":"Acme","idPrefix":1002}`)
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

	rec = env.do(t, http.MethodGet, "/api/v1/clients/1001", "alice", "")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	client := decode[map[string]any](t, rec)
	gt.Value(t, client["name"]).Equal("Acme")

	rec = env.do(t, http.MethodPost, "/api/v1/cases", "alice", `{"name":"Acme v. Globex","users":["alice"]}`)
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	created := decode[map[string]any](t, rec)
	caseID := jsonNumber(int64(created["id"].(float64)))

	rec = env.do(t, http.MethodPut, "/api/v1/cases/"+caseID, "alice", `{"name":"Acme v. Globex (appeal)","users":["alice"]}`)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, decode[map[string]any](t, rec)["name"]).Equal("Acme v. Globex (appeal)")

	rec = env.do(t, http.MethodGet, "/api/v1/cases", "alice", "")
	gt.Array(t, decode[[]map[string]any](t, rec)).Length(1)

	rec = env.do(t, http.MethodDelete, "/api/v1/cases/"+caseID, "alice", "")
	gt.Value(t, rec.Code).Equal(http.StatusNoContent)

	rec = env.do(t, http.MethodGet, "/api/v1/cases/"+caseID, "alice", "")
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)

	rec = env.do(t, http.MethodDelete, "/api/v1/clients/1001", "alice", "")
	gt.Value(t, rec.Code).Equal(http.StatusNoContent)
}

func TestListLogs(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	gt.NoError(t, repo.User().Save(ctx, &model.User{Username: "root", Roles: []types.Role{types.RoleAdmin}})).Required()
	gt.NoError(t, repo.User().Save(ctx, &model.User{Username: "alice", Roles: []types.Role{types.RoleJurist}})).Required()

	authUC := usecase.NewAuthUseCase(testSecret)
	uc := usecase.New(repo,
		usecase.WithAuditEmitter(audit.NewRepositoryEmitter(repo.AuditLog())),
		usecase.WithAuth(authUC),
	)
	srv := server.New(uc)

	get := func(username string) *httptest.ResponseRecorder {
		token, err := authUC.IssueToken(ctx, username)
		gt.NoError(t, err).Required()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	// listing todos leaves one audit record behind
	token, err := authUC.IssueToken(ctx, "alice")
	gt.NoError(t, err).Required()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	srv.ServeHTTP(httptest.NewRecorder(), req)

	rec := get("alice")
	gt.Value(t, rec.Code).Equal(http.StatusForbidden)

	rec = get("root")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	logs := decode[[]map[string]any](t, rec)
	gt.Array(t, logs).Length(1).Required()
	gt.Value(t, logs[0]["action"]).Equal("VIEW_ALL_TODOS")
	gt.Value(t, logs[0]["username"]).Equal("alice")
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
