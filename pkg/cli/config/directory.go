package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/lexdesk/casework/pkg/domain/model"
	"github.com/lexdesk/casework/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Directory is the seed file describing users, clients and cases
type Directory struct {
	Users   []User   `toml:"users"`
	Clients []Client `toml:"clients"`
	Cases   []Case   `toml:"cases"`
}

// User is a user directory entry
type User struct {
	Username string       `toml:"username"`
	Name     string       `toml:"name"`
	Email    string       `toml:"email"`
	Roles    []types.Role `toml:"roles"`
}

var knownRoles = types.NewRoleSet(types.RoleJurist, types.RoleSagsbehandler, types.RolePartner, types.RoleAdmin)

// Validate checks if the User is valid
func (u *User) Validate() error {
	if u.Username == "" {
		return goerr.Wrap(ErrMissingName, "username is required")
	}
	for _, r := range u.Roles {
		if !knownRoles.Has(r) {
			return goerr.Wrap(ErrUnknownRole, "unknown role", goerr.V(UsernameKey, u.Username), goerr.V(RoleKey, r.String()))
		}
	}
	return nil
}

// ToModel converts the entry to a domain user
func (u *User) ToModel() *model.User {
	return &model.User{
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Roles:    types.NewRoleSet(u.Roles...).Slice(),
	}
}

// Client is a client entry
type Client struct {
	Name     string   `toml:"name"`
	IDPrefix int64    `toml:"id_prefix"`
	Users    []string `toml:"users"`
}

// Validate checks if the Client is valid
func (c *Client) Validate() error {
	if c.Name == "" {
		return goerr.Wrap(ErrMissingName, "client name is required", goerr.V("id_prefix", c.IDPrefix))
	}
	if c.IDPrefix <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "client id_prefix must be positive", goerr.V(ClientKey, c.Name), goerr.V("id_prefix", c.IDPrefix))
	}
	return nil
}

// Case is a case entry. Client refers to a client by name.
type Case struct {
	Name   string   `toml:"name"`
	Client string   `toml:"client"`
	Users  []string `toml:"users"`
}

// Validate checks if the Case is valid
func (c *Case) Validate() error {
	if c.Name == "" {
		return goerr.Wrap(ErrMissingName, "case name is required")
	}
	return nil
}

// Validate checks every entry and the references between them
func (d *Directory) Validate() error {
	usernames := make(map[string]bool)
	for i, u := range d.Users {
		if err := u.Validate(); err != nil {
			return goerr.Wrap(err, "invalid user", goerr.V(IndexKey, i))
		}
		if usernames[u.Username] {
			return goerr.Wrap(ErrDuplicateEntry, "duplicate username", goerr.V(UsernameKey, u.Username))
		}
		usernames[u.Username] = true
	}

	clientNames := make(map[string]bool)
	prefixes := make(map[int64]bool)
	for i, c := range d.Clients {
		if err := c.Validate(); err != nil {
			return goerr.Wrap(err, "invalid client", goerr.V(IndexKey, i))
		}
		if clientNames[c.Name] {
			return goerr.Wrap(ErrDuplicateEntry, "duplicate client name", goerr.V(ClientKey, c.Name))
		}
		if prefixes[c.IDPrefix] {
			return goerr.Wrap(ErrDuplicateEntry, "duplicate client id_prefix", goerr.V("id_prefix", c.IDPrefix))
		}
		clientNames[c.Name] = true
		prefixes[c.IDPrefix] = true

		for _, username := range c.Users {
			if !usernames[username] {
				return goerr.Wrap(ErrUnknownUser, "client refers to unknown user", goerr.V(ClientKey, c.Name), goerr.V(UsernameKey, username))
			}
		}
	}

	caseNames := make(map[string]bool)
	for i, c := range d.Cases {
		if err := c.Validate(); err != nil {
			return goerr.Wrap(err, "invalid case", goerr.V(IndexKey, i))
		}
		if caseNames[c.Name] {
			return goerr.Wrap(ErrDuplicateEntry, "duplicate case name", goerr.V(CaseKey, c.Name))
		}
		caseNames[c.Name] = true

		if c.Client != "" && !clientNames[c.Client] {
			return goerr.Wrap(ErrUnknownClient, "case refers to unknown client", goerr.V(CaseKey, c.Name), goerr.V(ClientKey, c.Client))
		}
		for _, username := range c.Users {
			if !usernames[username] {
				return goerr.Wrap(ErrUnknownUser, "case refers to unknown user", goerr.V(CaseKey, c.Name), goerr.V(UsernameKey, username))
			}
		}
	}

	return nil
}

// ParseDirectory decodes and validates a directory document
func ParseDirectory(data []byte) (*Directory, error) {
	var dir Directory
	if err := toml.Unmarshal(data, &dir); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML directory", goerr.V("error", err.Error()))
	}
	if err := dir.Validate(); err != nil {
		return nil, goerr.Wrap(err, "directory validation failed")
	}
	return &dir, nil
}

// LoadDirectory reads and validates a directory file
func LoadDirectory(path string) (*Directory, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "directory file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read directory file", goerr.V(ConfigPathKey, path))
	}

	dir, err := ParseDirectory(data)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid directory file", goerr.V(ConfigPathKey, path))
	}
	return dir, nil
}

// DirectoryFile holds the CLI flag pointing at a directory file
type DirectoryFile struct {
	path string
}

func (d *DirectoryFile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "directory",
			Aliases:     []string{"d"},
			Usage:       "Path to the TOML directory file (users, clients and cases)",
			Required:    true,
			Sources:     cli.EnvVars("CASEWORK_DIRECTORY"),
			Destination: &d.path,
		},
	}
}

// Path returns the configured file path
func (d *DirectoryFile) Path() string {
	return d.path
}

// Load reads and validates the configured file
func (d *DirectoryFile) Load() (*Directory, error) {
	return LoadDirectory(d.path)
}
