package repository_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/repository/cache"
	"github.com/lexdesk/casework/pkg/repository/firestore"
	"github.com/lexdesk/casework/pkg/repository/memory"
	"github.com/lexdesk/casework/pkg/repository/sqldb"
	"github.com/m-mizutani/gt"
)

// backends lists every Repository implementation the contract suites run against.
// Remote backends skip unless their environment variables are set.
var backends = []struct {
	name    string
	newRepo func(t *testing.T) interfaces.Repository
}{
	{"Memory", newMemoryRepository},
	{"SQLite", newSQLiteRepository},
	{"Cached", newCachedRepository},
	{"Postgres", newPostgresRepository},
	{"Firestore", newFirestoreRepository},
}

func runForEachBackend(t *testing.T, suite func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			suite(t, b.newRepo)
		})
	}
}

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newCachedRepository(t *testing.T) interfaces.Repository {
	return cache.Wrap(memory.New(), cache.NewMemoryStore(), time.Minute)
}

func newSQLiteRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	repo, err := sqldb.NewSQLite(context.Background(), ":memory:")
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// newPostgresRepository gives every test its own schema so suites can assume an empty store
func newPostgresRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	dsn, ok := os.LookupEnv("TEST_POSTGRES_DSN")
	if !ok {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	schema := fmt.Sprintf("casework_test_%d", time.Now().UnixNano())

	admin, err := sqlx.Open("pgx", dsn)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = admin.Close() })

	_, err = admin.ExecContext(ctx, "CREATE SCHEMA "+schema)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		_, _ = admin.ExecContext(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
	})

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	repo, err := sqldb.NewPostgres(ctx, dsn+sep+"search_path="+schema)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// newFirestoreRepository isolates each test under a unique collection prefix
func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(context.Background(), projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func ptr[T any](v T) *T {
	return &v
}
