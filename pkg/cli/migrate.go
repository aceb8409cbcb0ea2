package cli

import (
	"context"

	"github.com/lexdesk/casework/pkg/cli/config"
	"github.com/lexdesk/casework/pkg/repository/firestore"
	"github.com/lexdesk/casework/pkg/repository/sqldb"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Preview changes without applying",
			Destination: &dryRun,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Apply Firestore indexes or SQL schema migrations",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := repoCfg.Validate(); err != nil {
				return err
			}

			switch repoCfg.Backend() {
			case config.BackendFirestore:
				return migrateFirestore(ctx, &repoCfg, dryRun)
			case config.BackendSQLite, config.BackendPostgres:
				return migrateSQL(ctx, &repoCfg, dryRun)
			default:
				logging.Default().Info("Nothing to migrate", "backend", repoCfg.Backend())
				return nil
			}
		},
	}
}

func migrateFirestore(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	logger := logging.Default()

	logger.Info("Migrate configuration",
		"projectID", repoCfg.ProjectID(),
		"databaseID", repoCfg.DatabaseID(),
		"collectionPrefix", repoCfg.CollectionPrefix(),
		"dryRun", dryRun)

	indexConfig := firestore.IndexConfig(repoCfg.CollectionPrefix())

	client, err := fireconf.New(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID(), indexConfig,
		fireconf.WithLogger(logger))
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client")
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close fireconf client", "error", err.Error())
		}
	}()

	if dryRun {
		logger.Info("Dry run mode - previewing changes")
		current, err := client.Import(ctx, collectionNames(indexConfig)...)
		if err != nil {
			return goerr.Wrap(err, "failed to import current indexes")
		}

		diff, err := client.DiffConfigs(current)
		if err != nil {
			return goerr.Wrap(err, "failed to diff index configuration")
		}

		if countIndexChanges(diff) == 0 {
			logger.Info("No changes required")
			return nil
		}

		for _, col := range diff.Collections {
			logger.Info("Migration step",
				"collection", col.Name,
				"action", string(col.Action),
				"indexes_to_add", len(col.IndexesToAdd),
				"indexes_to_delete", len(col.IndexesToDelete),
				"ttl_action", string(col.TTLAction))
		}
		return nil
	}

	logger.Info("Applying migrations")
	if err := client.Migrate(ctx); err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	logger.Info("Migrations applied successfully")
	return nil
}

func collectionNames(cfg *fireconf.Config) []string {
	names := make([]string, 0, len(cfg.Collections))
	for _, col := range cfg.Collections {
		names = append(names, col.Name)
	}
	return names
}

// countIndexChanges returns the number of index and TTL changes a diff would apply
func countIndexChanges(diff *fireconf.DiffResult) int {
	if diff == nil {
		return 0
	}

	n := 0
	for _, col := range diff.Collections {
		n += len(col.IndexesToAdd) + len(col.IndexesToDelete)
		if col.TTLAction != "" {
			n++
		}
	}
	return n
}

func migrateSQL(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	logger := logging.Default()

	dialect, dsn, err := repoCfg.SQLTarget()
	if err != nil {
		return err
	}

	if dryRun {
		versions, err := sqldb.PendingMigrations(ctx, dialect, dsn)
		if err != nil {
			return goerr.Wrap(err, "failed to list pending migrations")
		}
		if len(versions) == 0 {
			logger.Info("No changes required")
			return nil
		}
		for _, v := range versions {
			logger.Info("Migration step", "dialect", string(dialect), "version", v)
		}
		return nil
	}

	db, err := sqldb.New(ctx, dialect, dsn)
	if err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err.Error())
		}
	}()

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	logger.Info("Migrations applied successfully", "dialect", string(dialect), "version", version)
	return nil
}
