package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Firestore struct {
	client   *firestore.Client
	todo     *todoRepository
	caseRepo *caseRepository
	clients  *clientRepository
	user     *userRepository
	auditLog *auditLogRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes every collection name, e.g. "test" gives "test_todos"
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.todo.names.prefix = prefix
		f.caseRepo.names.prefix = prefix
		f.clients.names.prefix = prefix
		f.user.names.prefix = prefix
		f.auditLog.names.prefix = prefix
	}
}

// New connects to Firestore. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	var client *firestore.Client
	var err error
	if databaseID == firestore.DefaultDatabaseID {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	caseRepo := newCaseRepository(client)
	f := &Firestore{
		client:   client,
		todo:     newTodoRepository(client, caseRepo),
		caseRepo: caseRepo,
		clients:  newClientRepository(client),
		user:     newUserRepository(client),
		auditLog: newAuditLogRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Todo() interfaces.TodoRepository {
	return f.todo
}

func (f *Firestore) Case() interfaces.CaseRepository {
	return f.caseRepo
}

func (f *Firestore) Client() interfaces.ClientRepository {
	return f.clients
}

func (f *Firestore) User() interfaces.UserRepository {
	return f.user
}

func (f *Firestore) AuditLog() interfaces.AuditLogRepository {
	return f.auditLog
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// collectionNames resolves collection names under an optional prefix
type collectionNames struct {
	prefix string
}

func (n collectionNames) name(base string) string {
	if n.prefix != "" {
		return n.prefix + "_" + base
	}
	return base
}

// Collection names without prefix
const (
	TodosCollection     = "todos"
	CasesCollection     = "cases"
	ClientsCollection   = "clients"
	UsersCollection     = "users"
	AuditLogsCollection = "audit_logs"
	countersCollection  = "counters"
)

// nextID increments the named counter document in a transaction and returns the new value
func nextID(ctx context.Context, client *firestore.Client, names collectionNames, counter string) (int64, error) {
	counterRef := client.Collection(names.name(countersCollection)).Doc(counter)

	var id int64
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				id = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": id,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		id = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: id},
		})
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID", goerr.V("counter", counter))
	}

	return id, nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
