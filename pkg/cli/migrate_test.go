package cli_test

import (
	"testing"

	"github.com/lexdesk/casework/pkg/cli"
	"github.com/lexdesk/casework/pkg/repository/firestore"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
)

func TestCollectionNames(t *testing.T) {
	names := cli.CollectionNames(firestore.IndexConfig("prod"))
	gt.Array(t, names).Has("prod_todos")
}

func TestCountIndexChanges(t *testing.T) {
	idx := fireconf.Index{
		Fields: []fireconf.IndexField{
			{Path: "archived", Order: fireconf.OrderAscending},
			{Path: "id", Order: fireconf.OrderAscending},
		},
	}

	t.Run("nil diff", func(t *testing.T) {
		gt.Value(t, cli.CountIndexChanges(nil)).Equal(0)
	})

	t.Run("no collections", func(t *testing.T) {
		gt.Value(t, cli.CountIndexChanges(&fireconf.DiffResult{})).Equal(0)
	})

	t.Run("adds, deletes and ttl", func(t *testing.T) {
		diff := &fireconf.DiffResult{
			Collections: []fireconf.CollectionDiff{
				{
					Name:         "todos",
					Action:       fireconf.ActionAdd,
					Indexes:      []fireconf.Index{idx},
					IndexesToAdd: []fireconf.Index{idx},
				},
				{
					Name:            "audit_logs",
					Action:          fireconf.ActionModify,
					IndexesToDelete: []fireconf.Index{idx},
					TTL:             &fireconf.TTL{Field: "expires_at"},
					TTLAction:       fireconf.ActionAdd,
				},
			},
		}
		gt.Value(t, cli.CountIndexChanges(diff)).Equal(3)
	})
}
