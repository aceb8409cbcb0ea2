package sqldb

import (
	"context"
	"embed"
	"io/fs"
	"path"

	"github.com/jmoiron/sqlx"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationFS embed.FS

func (d Dialect) gooseDialect() (goose.Dialect, error) {
	switch d {
	case DialectSQLite:
		return goose.DialectSQLite3, nil
	case DialectPostgres:
		return goose.DialectPostgres, nil
	default:
		return "", goerr.New("unsupported SQL dialect", goerr.V("dialect", string(d)))
	}
}

// newMigrator returns a goose provider over migrations/<dialect>
func newMigrator(db *sqlx.DB, dialect Dialect) (*goose.Provider, error) {
	gd, err := dialect.gooseDialect()
	if err != nil {
		return nil, err
	}

	fsys, err := fs.Sub(migrationFS, path.Join("migrations", string(dialect)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read migrations", goerr.V("dialect", string(dialect)))
	}

	provider, err := goose.NewProvider(gd, db.DB, fsys)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create migration provider", goerr.V("dialect", string(dialect)))
	}
	return provider, nil
}

// migrate applies every migration newer than the recorded schema version
func migrate(ctx context.Context, db *sqlx.DB, dialect Dialect) error {
	provider, err := newMigrator(db, dialect)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to apply migrations", goerr.V("dialect", string(dialect)))
	}

	for _, r := range results {
		logging.From(ctx).Info("applied migration",
			"dialect", string(dialect),
			"version", r.Source.Version,
			"duration", r.Duration)
	}
	return nil
}

func pending(ctx context.Context, db *sqlx.DB, dialect Dialect) ([]int, error) {
	provider, err := newMigrator(db, dialect)
	if err != nil {
		return nil, err
	}

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read migration status", goerr.V("dialect", string(dialect)))
	}

	var versions []int
	for _, s := range statuses {
		if s.State == goose.StatePending {
			versions = append(versions, int(s.Source.Version))
		}
	}
	return versions, nil
}

func currentVersion(ctx context.Context, db *sqlx.DB, dialect Dialect) (int, error) {
	provider, err := newMigrator(db, dialect)
	if err != nil {
		return 0, err
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read schema version")
	}
	return int(version), nil
}
