package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type auditLogDoc struct {
	ID        string    `firestore:"id"`
	Action    string    `firestore:"action"`
	Actor     string    `firestore:"actor"`
	Message   string    `firestore:"message"`
	CreatedAt time.Time `firestore:"created_at"`
}

type auditLogRepository struct {
	client *firestore.Client
	names  collectionNames
}

func newAuditLogRepository(client *firestore.Client) *auditLogRepository {
	return &auditLogRepository{
		client: client,
	}
}

func (r *auditLogRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.names.name(AuditLogsCollection))
}

func (r *auditLogRepository) Put(ctx context.Context, record *model.AuditRecord) error {
	if record.ID == "" {
		return goerr.New("audit record ID is required")
	}

	d := &auditLogDoc{
		ID:        string(record.ID),
		Action:    record.Action.String(),
		Actor:     record.Actor,
		Message:   record.Message,
		CreatedAt: record.CreatedAt,
	}
	if _, err := r.collection().Doc(d.ID).Set(ctx, d); err != nil {
		return goerr.Wrap(err, "failed to put audit record", goerr.V("id", d.ID))
	}
	return nil
}

func (r *auditLogRepository) List(ctx context.Context) ([]*model.AuditRecord, error) {
	iter := r.collection().OrderBy("created_at", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	records := []*model.AuditRecord{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate audit records")
		}

		var d auditLogDoc
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode audit record", goerr.V("doc_id", docSnap.Ref.ID))
		}
		records = append(records, &model.AuditRecord{
			ID:        model.AuditRecordID(d.ID),
			Action:    types.AuditAction(d.Action),
			Actor:     d.Actor,
			Message:   d.Message,
			CreatedAt: d.CreatedAt,
		})
	}
	return records, nil
}
