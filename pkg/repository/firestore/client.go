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

// clientDoc is keyed by IDPrefix so uniqueness of the prefix is enforced by the document ID
type clientDoc struct {
	ID        int64     `firestore:"id"`
	Name      string    `firestore:"name"`
	UserIDs   []string  `firestore:"user_ids"`
	IDPrefix  int64     `firestore:"id_prefix"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (d *clientDoc) toModel() *model.Client {
	userIDs := d.UserIDs
	if userIDs == nil {
		userIDs = []string{}
	}
	return &model.Client{
		ID:        d.ID,
		Name:      d.Name,
		UserIDs:   userIDs,
		IDPrefix:  d.IDPrefix,
		CreatedAt: d.CreatedAt,
	}
}

type clientRepository struct {
	client *firestore.Client
	names  collectionNames
}

func newClientRepository(client *firestore.Client) *clientRepository {
	return &clientRepository{
		client: client,
	}
}

func (r *clientRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.names.name(ClientsCollection))
}

func (r *clientRepository) Create(ctx context.Context, c *model.Client) (*model.Client, error) {
	if _, err := r.GetByName(ctx, c.Name); err == nil {
		return nil, goerr.New("client name already exists", goerr.V("name", c.Name))
	}

	id, err := nextID(ctx, r.client, r.names, "client_counter")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to allocate client ID")
	}

	d := &clientDoc{
		ID:        id,
		Name:      c.Name,
		UserIDs:   model.UniqueStrings(c.UserIDs),
		IDPrefix:  c.IDPrefix,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	if _, err := r.collection().Doc(strconv.FormatInt(c.IDPrefix, 10)).Create(ctx, d); err != nil {
		return nil, goerr.Wrap(err, "failed to create client", goerr.V("id_prefix", c.IDPrefix))
	}
	return d.toModel(), nil
}

func (r *clientRepository) List(ctx context.Context) ([]*model.Client, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	clients := []*model.Client{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate clients")
		}

		var d clientDoc
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode client", goerr.V("doc_id", docSnap.Ref.ID))
		}
		clients = append(clients, d.toModel())
	}

	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })
	return clients, nil
}

func (r *clientRepository) GetByIDPrefix(ctx context.Context, idPrefix int64) (*model.Client, error) {
	docSnap, err := r.collection().Doc(strconv.FormatInt(idPrefix, 10)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "client not found", goerr.V("id_prefix", idPrefix))
		}
		return nil, goerr.Wrap(err, "failed to get client", goerr.V("id_prefix", idPrefix))
	}

	var d clientDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode client", goerr.V("id_prefix", idPrefix))
	}
	return d.toModel(), nil
}

func (r *clientRepository) GetByName(ctx context.Context, name string) (*model.Client, error) {
	iter := r.collection().Where("name", "==", name).Limit(1).Documents(ctx)
	defer iter.Stop()

	docSnap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "client not found", goerr.V("name", name))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query client", goerr.V("name", name))
	}

	var d clientDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode client", goerr.V("name", name))
	}
	return d.toModel(), nil
}

func (r *clientRepository) Delete(ctx context.Context, idPrefix int64) error {
	docRef := r.collection().Doc(strconv.FormatInt(idPrefix, 10))
	if _, err := docRef.Get(ctx); err != nil {
		if isNotFound(err) {
			return goerr.Wrap(interfaces.ErrNotFound, "client not found", goerr.V("id_prefix", idPrefix))
		}
		return goerr.Wrap(err, "failed to get client", goerr.V("id_prefix", idPrefix))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete client", goerr.V("id_prefix", idPrefix))
	}
	return nil
}
