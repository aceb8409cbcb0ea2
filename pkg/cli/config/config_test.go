package config_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lexdesk/casework/pkg/cli/config"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/repository/memory"
	"github.com/lexdesk/casework/pkg/repository/sqldb"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"
)

// parseFlags runs a command carrying flags so their destinations are filled
func parseFlags(t *testing.T, flags []cli.Flag, args ...string) {
	t.Helper()
	cmd := &cli.Command{
		Name:  "test",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return nil
		},
	}
	gt.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...))).Required()
}

func TestRepository_Validate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		wantErr bool
	}{
		{name: "memory", args: []string{"--repository-backend=memory"}},
		{name: "default sqlite", args: nil},
		{name: "empty backend falls back to sqlite", env: map[string]string{"CASEWORK_REPOSITORY_BACKEND": ""}},
		{name: "firestore without project", args: []string{"--repository-backend=firestore"}, wantErr: true},
		{name: "firestore with project", args: []string{"--repository-backend=firestore", "--firestore-project-id=p"}},
		{name: "postgres without dsn", args: []string{"--repository-backend=postgres"}, wantErr: true},
		{name: "sqlite without path", env: map[string]string{"CASEWORK_SQLITE_PATH": ""}, wantErr: true},
		{name: "unknown backend", args: []string{"--repository-backend=mongo"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			var cfg config.Repository
			parseFlags(t, cfg.Flags(), tt.args...)

			err := cfg.Validate()
			if tt.wantErr {
				gt.Error(t, err).Is(config.ErrInvalidConfig)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestRepository_Backend(t *testing.T) {
	var cfg config.Repository
	gt.Value(t, cfg.Backend()).Equal(config.BackendSQLite)

	parseFlags(t, cfg.Flags(), "--repository-backend=memory")
	gt.Value(t, cfg.Backend()).Equal(config.BackendMemory)
}

func TestRepository_Configure(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		var cfg config.Repository
		parseFlags(t, cfg.Flags(), "--repository-backend=memory")

		repo, err := cfg.Configure(ctx)
		gt.NoError(t, err).Required()
		defer repo.Close()

		_, ok := repo.(*memory.Memory)
		gt.B(t, ok).True()
	})

	t.Run("sqlite file is created and migrated", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "casework.db")
		var cfg config.Repository
		parseFlags(t, cfg.Flags(), "--repository-backend=sqlite", "--sqlite-path="+path)

		repo, err := cfg.Configure(ctx)
		gt.NoError(t, err).Required()
		defer repo.Close()

		db, ok := repo.(*sqldb.DB)
		gt.B(t, ok).True()
		gt.Value(t, db.Dialect()).Equal(sqldb.DialectSQLite)

		gt.NoError(t, repo.User().Save(ctx, &model.User{Username: "alice"}))
		got, err := repo.User().GetByUsername(ctx, "alice")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Username).Equal("alice")
	})
}

func TestAuth_Configure(t *testing.T) {
	t.Run("secret is required", func(t *testing.T) {
		var cfg config.Auth
		parseFlags(t, cfg.Flags())

		_, err := cfg.Configure()
		gt.Error(t, err).Is(config.ErrMissingSecret)
	})

	t.Run("no-auth needs no secret", func(t *testing.T) {
		var cfg config.Auth
		parseFlags(t, cfg.Flags(), "--no-auth=alice")
		gt.B(t, cfg.IsNoAuthMode()).True()

		authUC, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.B(t, authUC.IsNoAuthn()).True()

		token, err := authUC.ValidateToken(context.Background(), "")
		gt.NoError(t, err).Required()
		gt.Value(t, token.Sub).Equal("alice")
	})

	t.Run("issued tokens validate", func(t *testing.T) {
		var cfg config.Auth
		parseFlags(t, cfg.Flags(), "--jwt-secret=s3cret", "--jwt-ttl=1h")

		issuer, err := cfg.Issuer()
		gt.NoError(t, err).Required()

		raw, err := issuer.IssueToken(context.Background(), "bob")
		gt.NoError(t, err).Required()

		authUC, err := cfg.Configure()
		gt.NoError(t, err).Required()
		token, err := authUC.ValidateToken(context.Background(), raw)
		gt.NoError(t, err).Required()
		gt.Value(t, token.Sub).Equal("bob")
		gt.B(t, token.ExpiresAt.Before(time.Now().Add(time.Hour+time.Minute))).True()
	})

	t.Run("non positive ttl", func(t *testing.T) {
		var cfg config.Auth
		parseFlags(t, cfg.Flags(), "--jwt-secret=s3cret", "--jwt-ttl=0s")

		_, err := cfg.Issuer()
		gt.Error(t, err).Is(config.ErrInvalidDuration)
	})
}

func TestCache_Configure(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled by default", func(t *testing.T) {
		var cfg config.Cache
		parseFlags(t, cfg.Flags())
		gt.B(t, cfg.Enabled()).False()

		store, closer, err := cfg.Configure(ctx)
		gt.NoError(t, err).Required()
		defer closer()
		gt.Value(t, store).Nil()
	})

	t.Run("memory", func(t *testing.T) {
		var cfg config.Cache
		parseFlags(t, cfg.Flags(), "--user-cache=memory", "--user-cache-ttl=30s")
		gt.Value(t, cfg.TTL()).Equal(30 * time.Second)

		store, closer, err := cfg.Configure(ctx)
		gt.NoError(t, err).Required()
		defer closer()
		gt.Value(t, store).NotNil()
	})

	t.Run("redis requires url", func(t *testing.T) {
		var cfg config.Cache
		parseFlags(t, cfg.Flags(), "--user-cache=redis")

		_, _, err := cfg.Configure(ctx)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("unknown backend", func(t *testing.T) {
		var cfg config.Cache
		parseFlags(t, cfg.Flags(), "--user-cache=memcached")

		_, _, err := cfg.Configure(ctx)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestSentry_ConfigureWithoutDSN(t *testing.T) {
	var cfg config.Sentry
	parseFlags(t, cfg.Flags())

	closer, err := cfg.Configure("test")
	gt.NoError(t, err).Required()
	closer()
}

func TestLogger_Configure(t *testing.T) {
	prev := logging.Default()
	defer logging.SetDefault(prev)

	t.Run("file output", func(t *testing.T) {
		var cfg config.Logger
		path := filepath.Join(t.TempDir(), "casework.log")
		parseFlags(t, cfg.Flags(), "--log-format=json", "--log-output="+path)

		closer, err := cfg.Configure()
		gt.NoError(t, err).Required()
		closer()
	})

	t.Run("invalid level", func(t *testing.T) {
		var cfg config.Logger
		parseFlags(t, cfg.Flags(), "--log-level=loud")

		_, err := cfg.Configure()
		gt.Error(t, err)
	})
}
