package firestore

import (
	"context"
	"sort"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type caseDoc struct {
	ID        int64     `firestore:"id"`
	Name      string    `firestore:"name"`
	ClientID  *int64    `firestore:"client_id"`
	UserIDs   []string  `firestore:"user_ids"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func newCaseDoc(c *model.Case) *caseDoc {
	return &caseDoc{
		ID:        c.ID,
		Name:      c.Name,
		ClientID:  c.ClientID,
		UserIDs:   model.UniqueStrings(c.UserIDs),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d *caseDoc) toModel() *model.Case {
	userIDs := d.UserIDs
	if userIDs == nil {
		userIDs = []string{}
	}
	return &model.Case{
		ID:        d.ID,
		Name:      d.Name,
		ClientID:  d.ClientID,
		UserIDs:   userIDs,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type caseRepository struct {
	client *firestore.Client
	names  collectionNames
}

func newCaseRepository(client *firestore.Client) *caseRepository {
	return &caseRepository{
		client: client,
	}
}

func (r *caseRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.names.name(CasesCollection))
}

func (r *caseRepository) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	id, err := nextID(ctx, r.client, r.names, "case_counter")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to allocate case ID")
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	created := &model.Case{
		ID:        id,
		Name:      c.Name,
		ClientID:  c.ClientID,
		UserIDs:   model.UniqueStrings(c.UserIDs),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.collection().Doc(strconv.FormatInt(id, 10)).Create(ctx, newCaseDoc(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create case", goerr.V("id", id))
	}

	return created, nil
}

func (r *caseRepository) Get(ctx context.Context, id int64) (*model.Case, error) {
	docSnap, err := r.collection().Doc(strconv.FormatInt(id, 10)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "case not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V("id", id))
	}

	var d caseDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode case", goerr.V("id", id))
	}
	return d.toModel(), nil
}

func (r *caseRepository) collect(iter *firestore.DocumentIterator) ([]*model.Case, error) {
	defer iter.Stop()

	cases := []*model.Case{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate cases")
		}

		var d caseDoc
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode case", goerr.V("doc_id", docSnap.Ref.ID))
		}
		cases = append(cases, d.toModel())
	}

	sort.Slice(cases, func(i, j int) bool { return cases[i].ID < cases[j].ID })
	return cases, nil
}

func (r *caseRepository) List(ctx context.Context) ([]*model.Case, error) {
	return r.collect(r.collection().Documents(ctx))
}

func (r *caseRepository) ListByUser(ctx context.Context, username string) ([]*model.Case, error) {
	return r.collect(r.collection().Where("user_ids", "array-contains", username).Documents(ctx))
}

func (r *caseRepository) Update(ctx context.Context, c *model.Case) (*model.Case, error) {
	docRef := r.collection().Doc(strconv.FormatInt(c.ID, 10))

	var updated *model.Case
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(interfaces.ErrNotFound, "case not found", goerr.V("id", c.ID))
			}
			return goerr.Wrap(err, "failed to get case", goerr.V("id", c.ID))
		}

		var existing caseDoc
		if err := docSnap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode case", goerr.V("id", c.ID))
		}

		updated = &model.Case{
			ID:        c.ID,
			Name:      c.Name,
			ClientID:  c.ClientID,
			UserIDs:   model.UniqueStrings(c.UserIDs),
			CreatedAt: existing.CreatedAt,
			UpdatedAt: time.Now().UTC().Truncate(time.Microsecond),
		}
		return tx.Set(docRef, newCaseDoc(updated))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update case", goerr.V("id", c.ID))
	}

	return updated, nil
}

func (r *caseRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.collection().Doc(strconv.FormatInt(id, 10))
	if _, err := docRef.Get(ctx); err != nil {
		if isNotFound(err) {
			return goerr.Wrap(interfaces.ErrNotFound, "case not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get case", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete case", goerr.V("id", id))
	}
	return nil
}
