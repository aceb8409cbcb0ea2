package firestore

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type userDoc struct {
	Username string   `firestore:"username"`
	Name     string   `firestore:"name"`
	Email    string   `firestore:"email"`
	Roles    []string `firestore:"roles"`
}

func (d *userDoc) toModel() *model.User {
	roles := make([]types.Role, 0, len(d.Roles))
	for _, r := range d.Roles {
		roles = append(roles, types.Role(r))
	}
	// stored roles may predate normalization
	return &model.User{
		Username: d.Username,
		Name:     d.Name,
		Email:    d.Email,
		Roles:    types.NewRoleSet(roles...).Slice(),
	}
}

type userRepository struct {
	client *firestore.Client
	names  collectionNames
}

func newUserRepository(client *firestore.Client) *userRepository {
	return &userRepository{
		client: client,
	}
}

func (r *userRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.names.name(UsersCollection))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V("username", username))
	}

	docSnap, err := r.collection().Doc(username).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "user not found", goerr.V("username", username))
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("username", username))
	}

	var d userDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user", goerr.V("username", username))
	}
	return d.toModel(), nil
}

func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	if user.Username == "" {
		return goerr.New("username is required")
	}

	roles := user.RoleSet().Slice()
	d := &userDoc{
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		Roles:    make([]string, 0, len(roles)),
	}
	for _, role := range roles {
		d.Roles = append(d.Roles, role.String())
	}

	if _, err := r.collection().Doc(user.Username).Set(ctx, d); err != nil {
		return goerr.Wrap(err, "failed to save user", goerr.V("username", user.Username))
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	users := []*model.User{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate users")
		}

		var d userDoc
		if err := docSnap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode user", goerr.V("doc_id", docSnap.Ref.ID))
		}
		users = append(users, d.toModel())
	}

	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}
