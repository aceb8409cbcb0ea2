package cli

import (
	"context"
	"errors"

	"github.com/lexdesk/casework/pkg/cli/config"
	"github.com/lexdesk/casework/pkg/domain/interfaces"
	"github.com/lexdesk/casework/pkg/usecase"
	"github.com/lexdesk/casework/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type seedResult struct {
	Users          int
	ClientsCreated int
	CasesCreated   int
}

func cmdSeed() *cli.Command {
	var repoCfg config.Repository
	var dirCfg config.DirectoryFile

	var flags []cli.Flag
	flags = append(flags, dirCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Load users, clients and cases from a directory file into the repository",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			dir, err := dirCfg.Load()
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			result, err := seedDirectory(ctx, repo, dir)
			if err != nil {
				return err
			}

			logging.Default().Info("Seed completed",
				"path", dirCfg.Path(),
				"users", result.Users,
				"clients_created", result.ClientsCreated,
				"cases_created", result.CasesCreated,
			)
			return nil
		},
	}
}

// seedDirectory upserts users and creates the clients and cases not yet
// present by name, so running it twice is harmless.
func seedDirectory(ctx context.Context, repo interfaces.Repository, dir *config.Directory) (*seedResult, error) {
	result := &seedResult{}

	for _, u := range dir.Users {
		if err := repo.User().Save(ctx, u.ToModel()); err != nil {
			return nil, goerr.Wrap(err, "failed to save user", goerr.V(config.UsernameKey, u.Username))
		}
		result.Users++
	}

	clientUC := usecase.NewClientUseCase(repo)
	clientIDs := make(map[string]int64, len(dir.Clients))
	for _, c := range dir.Clients {
		existing, err := clientUC.GetClientByName(ctx, c.Name)
		if err == nil {
			clientIDs[c.Name] = existing.ID
			continue
		}
		if !errors.Is(err, usecase.ErrNotFound) {
			return nil, goerr.Wrap(err, "failed to look up client", goerr.V(config.ClientKey, c.Name))
		}

		created, err := clientUC.CreateClient(ctx, c.Name, c.IDPrefix, c.Users)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create client", goerr.V(config.ClientKey, c.Name))
		}
		clientIDs[c.Name] = created.ID
		result.ClientsCreated++
	}

	caseUC := usecase.NewCaseUseCase(repo)
	existing, err := caseUC.ListCases(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases")
	}
	caseNames := make(map[string]bool, len(existing))
	for _, c := range existing {
		caseNames[c.Name] = true
	}

	for _, c := range dir.Cases {
		if caseNames[c.Name] {
			continue
		}

		var clientID *int64
		if c.Client != "" {
			id, ok := clientIDs[c.Client]
			if !ok {
				return nil, goerr.Wrap(config.ErrUnknownClient, "case refers to unknown client",
					goerr.V(config.CaseKey, c.Name), goerr.V(config.ClientKey, c.Client))
			}
			clientID = &id
		}

		if _, err := caseUC.CreateCase(ctx, c.Name, clientID, c.Users); err != nil {
			return nil, goerr.Wrap(err, "failed to create case", goerr.V(config.CaseKey, c.Name))
		}
		caseNames[c.Name] = true
		result.CasesCreated++
	}

	return result, nil
}
