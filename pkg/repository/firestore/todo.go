package firestore

import (
	"context"
	"sort"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
)

// maxCaseQueryConcurrency bounds the per-case todo queries of ListNonArchivedByCaseUser
const maxCaseQueryConcurrency = 8

type todoDoc struct {
	ID          int64     `firestore:"id"`
	Name        string    `firestore:"name"`
	Description string    `firestore:"description"`
	CreatedAt   time.Time `firestore:"created_at"`
	StartDate   string    `firestore:"start_date"`
	EndDate     string    `firestore:"end_date"`
	Priority    string    `firestore:"priority"`
	Status      string    `firestore:"status"`
	Archived    bool      `firestore:"archived"`
	AssigneeIDs []string  `firestore:"assignee_ids"`
	CaseID      *int64    `firestore:"case_id"`
}

func newTodoDoc(t *model.Todo) *todoDoc {
	assignees := model.UniqueStrings(t.AssigneeIDs)
	return &todoDoc{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		StartDate:   t.StartDate.String(),
		EndDate:     t.EndDate.String(),
		Priority:    t.Priority.String(),
		Status:      t.Status.String(),
		Archived:    t.Archived,
		AssigneeIDs: assignees,
		CaseID:      t.CaseID,
	}
}

func (d *todoDoc) toModel() *model.Todo {
	assignees := d.AssigneeIDs
	if assignees == nil {
		assignees = []string{}
	}
	return &model.Todo{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		StartDate:   types.Date(d.StartDate),
		EndDate:     types.Date(d.EndDate),
		Priority:    types.Priority(d.Priority),
		Status:      types.TodoStatus(d.Status),
		Archived:    d.Archived,
		AssigneeIDs: assignees,
		CaseID:      d.CaseID,
	}
}

type todoRepository struct {
	client *firestore.Client
	names  collectionNames
	cases  *caseRepository
}

func newTodoRepository(client *firestore.Client, cases *caseRepository) *todoRepository {
	return &todoRepository{
		client: client,
		cases:  cases,
	}
}

func (r *todoRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.names.name(TodosCollection))
}

func (r *todoRepository) collect(iter *firestore.DocumentIterator) ([]*model.Todo, error) {
	defer iter.Stop()

	todos := []*model.Todo{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate todos")
		}

		var d todoDoc
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode todo", goerr.V("doc_id", docSnap.Ref.ID))
		}
		todos = append(todos, d.toModel())
	}
	return todos, nil
}

func (r *todoRepository) List(ctx context.Context) ([]*model.Todo, error) {
	return r.collect(r.collection().OrderBy("id", firestore.Asc).Documents(ctx))
}

func (r *todoRepository) ListNonArchived(ctx context.Context) ([]*model.Todo, error) {
	q := r.collection().
		Where("archived", "==", false).
		OrderBy("id", firestore.Asc)
	return r.collect(q.Documents(ctx))
}

func (r *todoRepository) Get(ctx context.Context, id int64) (*model.Todo, error) {
	docSnap, err := r.collection().Doc(strconv.FormatInt(id, 10)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "todo not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get todo", goerr.V("id", id))
	}

	var d todoDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode todo", goerr.V("id", id))
	}
	return d.toModel(), nil
}

// ListNonArchivedByCaseUser resolves the user's cases first, then queries
// the todos of each case in parallel.
func (r *todoRepository) ListNonArchivedByCaseUser(ctx context.Context, username string) ([]*model.Todo, error) {
	cases, err := r.cases.ListByUser(ctx, username)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases of user", goerr.V("username", username))
	}

	results := make([][]*model.Todo, len(cases))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxCaseQueryConcurrency)
	for i, c := range cases {
		eg.Go(func() error {
			q := r.collection().
				Where("case_id", "==", c.ID).
				Where("archived", "==", false)
			todos, err := r.collect(q.Documents(ctx))
			if err != nil {
				return goerr.Wrap(err, "failed to list todos of case", goerr.V("case_id", c.ID))
			}
			results[i] = todos
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return distinctByID(results...), nil
}

func (r *todoRepository) ListNonArchivedByAssignee(ctx context.Context, username string) ([]*model.Todo, error) {
	q := r.collection().Where("assignee_ids", "array-contains", username)
	todos, err := r.collect(q.Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list todos of assignee", goerr.V("username", username))
	}

	active := make([]*model.Todo, 0, len(todos))
	for _, t := range todos {
		if !t.Archived {
			active = append(active, t)
		}
	}
	return distinctByID(active), nil
}

func (r *todoRepository) Save(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
	saved := *todo

	if saved.ID == 0 {
		id, err := nextID(ctx, r.client, r.names, "todo_counter")
		if err != nil {
			return nil, goerr.Wrap(err, "failed to allocate todo ID")
		}
		saved.ID = id

		docRef := r.collection().Doc(strconv.FormatInt(saved.ID, 10))
		if _, err := docRef.Create(ctx, newTodoDoc(&saved)); err != nil {
			return nil, goerr.Wrap(err, "failed to create todo", goerr.V("id", saved.ID))
		}
		return r.Get(ctx, saved.ID)
	}

	docRef := r.collection().Doc(strconv.FormatInt(saved.ID, 10))
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if isNotFound(err) {
				return goerr.Wrap(interfaces.ErrNotFound, "todo not found", goerr.V("id", saved.ID))
			}
			return goerr.Wrap(err, "failed to get todo", goerr.V("id", saved.ID))
		}

		var existing todoDoc
		if err := docSnap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode todo", goerr.V("id", saved.ID))
		}
		saved.CreatedAt = existing.CreatedAt

		return tx.Set(docRef, newTodoDoc(&saved))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update todo", goerr.V("id", saved.ID))
	}

	return r.Get(ctx, saved.ID)
}

func (r *todoRepository) Delete(ctx context.Context, id int64) error {
	docRef := r.collection().Doc(strconv.FormatInt(id, 10))
	if _, err := docRef.Get(ctx); err != nil {
		if isNotFound(err) {
			return goerr.Wrap(interfaces.ErrNotFound, "todo not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get todo", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete todo", goerr.V("id", id))
	}
	return nil
}

func (r *todoRepository) Count(ctx context.Context) (int64, error) {
	results, err := r.collection().NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count todos")
	}

	count, ok := results["all"]
	if !ok {
		return 0, goerr.New("count result missing")
	}
	v, ok := count.(*firestorepb.Value)
	if !ok {
		return 0, goerr.New("unexpected count result type", goerr.V("type", count))
	}
	return v.GetIntegerValue(), nil
}

func (r *todoRepository) DetachCase(ctx context.Context, caseID int64) error {
	iter := r.collection().Where("case_id", "==", caseID).Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate todos of case", goerr.V("case_id", caseID))
		}
		if _, err := bw.Update(docSnap.Ref, []firestore.Update{{Path: "case_id", Value: nil}}); err != nil {
			return goerr.Wrap(err, "failed to enqueue todo update", goerr.V("doc_id", docSnap.Ref.ID))
		}
	}
	bw.End()
	return nil
}

// distinctByID merges todo lists, drops duplicate IDs and orders by ID
func distinctByID(lists ...[]*model.Todo) []*model.Todo {
	seen := make(map[int64]struct{})
	out := []*model.Todo{}
	for _, list := range lists {
		for _, t := range list {
			if _, ok := seen[t.ID]; ok {
				continue
			}
			seen[t.ID] = struct{}{}
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
