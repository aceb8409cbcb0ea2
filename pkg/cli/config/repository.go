package config

import (
	"context"

	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/repository/firestore"
	"github.com/lexdesk/casework/pkg/repository/memory"
	"github.com/lexdesk/casework/pkg/repository/sqldb"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Repository backends
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
	BackendPostgres  = "postgres"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend          string
	projectID        string
	databaseID       string
	collectionPrefix string
	sqlitePath       string
	postgresDSN      string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (memory, firestore, sqlite or postgres)",
			Value:       BackendSQLite,
			Category:    "Repository",
			Sources:     cli.EnvVars("CASEWORK_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("CASEWORK_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("CASEWORK_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix for Firestore collection names",
			Category:    "Repository",
			Sources:     cli.EnvVars("CASEWORK_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Usage:       "SQLite database file (required when using sqlite backend)",
			Value:       "casework.db",
			Category:    "Repository",
			Sources:     cli.EnvVars("CASEWORK_SQLITE_PATH"),
			Destination: &r.sqlitePath,
		},
		&cli.StringFlag{
			Name:        "postgres-dsn",
			Usage:       "PostgreSQL connection string (required when using postgres backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("CASEWORK_POSTGRES_DSN"),
			Destination: &r.postgresDSN,
		},
	}
}

// Backend returns the configured backend type. An empty value selects sqlite.
func (r *Repository) Backend() string {
	if r.backend == "" {
		return BackendSQLite
	}
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// DatabaseID returns the Firestore database ID
func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// CollectionPrefix returns the Firestore collection prefix
func (r *Repository) CollectionPrefix() string {
	return r.collectionPrefix
}

// Validate checks that the options required by the selected backend are set
func (r *Repository) Validate() error {
	switch r.Backend() {
	case BackendMemory:
		return nil
	case BackendFirestore:
		if r.projectID == "" {
			return goerr.Wrap(ErrInvalidConfig, "firestore-project-id is required when using firestore backend")
		}
	case BackendSQLite:
		if r.sqlitePath == "" {
			return goerr.Wrap(ErrInvalidConfig, "sqlite-path is required when using sqlite backend")
		}
	case BackendPostgres:
		if r.postgresDSN == "" {
			return goerr.Wrap(ErrInvalidConfig, "postgres-dsn is required when using postgres backend")
		}
	default:
		return goerr.Wrap(ErrInvalidConfig, "invalid repository backend", goerr.V(BackendKey, r.Backend()))
	}
	return nil
}

// Configure initializes and returns a repository based on the configured backend.
// SQL backends are migrated on open. The caller is responsible for calling
// Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	switch r.Backend() {
	case BackendFirestore:
		var opts []firestore.Option
		if r.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.collectionPrefix))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
			"collection_prefix", r.collectionPrefix,
		)
		return repo, nil

	case BackendSQLite, BackendPostgres:
		db, err := r.ConfigureSQL(ctx)
		if err != nil {
			return nil, err
		}
		return db, nil

	default:
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil
	}
}

// SQLTarget returns the dialect and DSN of a SQL backend
func (r *Repository) SQLTarget() (sqldb.Dialect, string, error) {
	if err := r.Validate(); err != nil {
		return "", "", err
	}

	switch r.Backend() {
	case BackendSQLite:
		return sqldb.DialectSQLite, r.sqlitePath, nil
	case BackendPostgres:
		return sqldb.DialectPostgres, r.postgresDSN, nil
	default:
		return "", "", goerr.Wrap(ErrInvalidConfig, "not a SQL backend", goerr.V(BackendKey, r.Backend()))
	}
}

// ConfigureSQL opens the SQL backend and applies pending schema migrations
func (r *Repository) ConfigureSQL(ctx context.Context) (*sqldb.DB, error) {
	dialect, dsn, err := r.SQLTarget()
	if err != nil {
		return nil, err
	}

	db, err := sqldb.New(ctx, dialect, dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize SQL repository", goerr.V(BackendKey, r.Backend()))
	}

	logging.Default().Info("Using SQL repository", "backend", r.Backend())
	return db, nil
}
