package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func runCaseRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create creates case with generated ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created1, err := repo.Case().Create(ctx, &model.Case{
			Name:     "Smith v. Jones",
			ClientID: ptr(int64(7)),
			UserIDs:  []string{"alice", "bob"},
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created1.ID).NotEqual(int64(0))
		gt.Value(t, created1.Name).Equal("Smith v. Jones")
		gt.Value(t, *created1.ClientID).Equal(int64(7))
		gt.Array(t, created1.UserIDs).Length(2)
		gt.Bool(t, created1.CreatedAt.IsZero()).False()
		gt.Bool(t, created1.UpdatedAt.IsZero()).False()

		created2, err := repo.Case().Create(ctx, &model.Case{Name: "Estate of Doe"})
		gt.NoError(t, err).Required()
		gt.Value(t, created2.ID).NotEqual(created1.ID)
		gt.Value(t, created2.ClientID).Nil()
	})

	t.Run("Get retrieves existing case", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Case().Create(ctx, &model.Case{Name: "Merger review", UserIDs: []string{"carol"}})
		gt.NoError(t, err).Required()

		got, err := repo.Case().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(created.ID)
		gt.Value(t, got.Name).Equal(created.Name)
		gt.Bool(t, got.HasUser("carol")).True()
		gt.Bool(t, got.CreatedAt.Equal(created.CreatedAt)).True()
	})

	t.Run("Get returns ErrNotFound for missing case", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Case().Get(context.Background(), 999)
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("ListByUser returns cases of member", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		c1, err := repo.Case().Create(ctx, &model.Case{Name: "One", UserIDs: []string{"alice"}})
		gt.NoError(t, err).Required()
		_, err = repo.Case().Create(ctx, &model.Case{Name: "Two", UserIDs: []string{"bob"}})
		gt.NoError(t, err).Required()

		all, err := repo.Case().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(2)

		cases, err := repo.Case().ListByUser(ctx, "alice")
		gt.NoError(t, err).Required()
		gt.Array(t, cases).Length(1)
		gt.Value(t, cases[0].ID).Equal(c1.ID)
	})

	t.Run("Update replaces name and members", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Case().Create(ctx, &model.Case{Name: "Original", UserIDs: []string{"alice"}})
		gt.NoError(t, err).Required()

		time.Sleep(5 * time.Millisecond)

		update := *created
		update.Name = "Renamed"
		update.UserIDs = []string{"bob", "carol"}
		updated, err := repo.Case().Update(ctx, &update)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Name).Equal("Renamed")
		gt.Array(t, updated.UserIDs).Length(2)
		gt.Bool(t, updated.HasUser("alice")).False()
		gt.Bool(t, updated.CreatedAt.Equal(created.CreatedAt)).True()
		gt.Bool(t, updated.UpdatedAt.After(created.UpdatedAt)).True()
	})

	t.Run("Update of missing case returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Case().Update(context.Background(), &model.Case{ID: 999, Name: "Ghost"})
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("Delete removes case", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Case().Create(ctx, &model.Case{Name: "Closed"})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Case().Delete(ctx, created.ID)).Required()
		_, err = repo.Case().Get(ctx, created.ID)
		gt.Error(t, err).Is(interfaces.ErrNotFound)

		gt.Error(t, repo.Case().Delete(ctx, created.ID)).Is(interfaces.ErrNotFound)
	})
}

func TestCaseRepository(t *testing.T) {
	runForEachBackend(t, runCaseRepositoryTest)
}
