package sqldb

import (
	"context"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/lexdesk/casework/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL driver and the migration set
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func init() {
	// sqlx does not know the modernc driver name
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

func (d Dialect) driverName() (string, error) {
	switch d {
	case DialectSQLite:
		return "sqlite", nil
	case DialectPostgres:
		return "pgx", nil
	default:
		return "", goerr.New("unsupported SQL dialect", goerr.V("dialect", string(d)))
	}
}

// DB is a Repository backed by a relational database
type DB struct {
	db       *sqlx.DB
	dialect  Dialect
	todo     *todoRepository
	caseRepo *caseRepository
	clients  *clientRepository
	user     *userRepository
	auditLog *auditLogRepository
}

var _ interfaces.Repository = &DB{}

// NewSQLite opens a SQLite database at path and applies pending migrations.
// ":memory:" gives a private in-memory database.
func NewSQLite(ctx context.Context, path string) (*DB, error) {
	return New(ctx, DialectSQLite, path)
}

// NewPostgres opens a PostgreSQL database and applies pending migrations
func NewPostgres(ctx context.Context, dsn string) (*DB, error) {
	return New(ctx, DialectPostgres, dsn)
}

// New opens a database with the given dialect and applies pending migrations
func New(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	db, err := open(ctx, dialect, dsn)
	if err != nil {
		return nil, err
	}

	if err := migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}

	caseRepo := &caseRepository{db: db}
	return &DB{
		db:       db,
		dialect:  dialect,
		todo:     &todoRepository{db: db},
		caseRepo: caseRepo,
		clients:  &clientRepository{db: db},
		user:     &userRepository{db: db},
		auditLog: &auditLogRepository{db: db},
	}, nil
}

// PendingMigrations returns the versions New would apply, without applying them
func PendingMigrations(ctx context.Context, dialect Dialect, dsn string) ([]int, error) {
	db, err := open(ctx, dialect, dsn)
	if err != nil {
		return nil, err
	}
	defer safe.Close(ctx, db)

	return pending(ctx, db, dialect)
}

func open(ctx context.Context, dialect Dialect, dsn string) (*sqlx.DB, error) {
	driver, err := dialect.driverName()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("dialect", string(dialect)))
	}

	if dialect == DialectSQLite {
		// a single connection keeps ":memory:" databases shared and avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
		for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, goerr.Wrap(err, "failed to set pragma", goerr.V("pragma", pragma))
			}
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to connect to database", goerr.V("dialect", string(dialect)))
	}
	return db, nil
}

// SchemaVersion returns the highest applied migration version
func (d *DB) SchemaVersion(ctx context.Context) (int, error) {
	return currentVersion(ctx, d.db, d.dialect)
}

func (d *DB) Dialect() Dialect {
	return d.dialect
}

func (d *DB) Todo() interfaces.TodoRepository {
	return d.todo
}

func (d *DB) Case() interfaces.CaseRepository {
	return d.caseRepo
}

func (d *DB) Client() interfaces.ClientRepository {
	return d.clients
}

func (d *DB) User() interfaces.UserRepository {
	return d.user
}

func (d *DB) AuditLog() interfaces.AuditLogRepository {
	return d.auditLog
}

func (d *DB) Close() error {
	if err := d.db.Close(); err != nil {
		return goerr.Wrap(err, "failed to close database")
	}
	logging.Default().Debug("database closed", "dialect", string(d.dialect))
	return nil
}

// isUniqueViolation matches the constraint errors of both drivers by message
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
