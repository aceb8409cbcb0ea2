package cli

import (
	"context"
	"fmt"

	"github.com/lexdesk/casework/pkg/cli/config"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdToken() *cli.Command {
	var authCfg config.Auth
	var username string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "username",
			Aliases:     []string{"u"},
			Usage:       "Username placed in the token subject",
			Required:    true,
			Destination: &username,
		},
	}
	flags = append(flags, authCfg.Flags()...)

	return &cli.Command{
		Name:  "token",
		Usage: "Issue a bearer token for a user",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			issuer, err := authCfg.Issuer()
			if err != nil {
				return err
			}

			token, err := issuer.IssueToken(ctx, username)
			if err != nil {
				return goerr.Wrap(err, "failed to issue token")
			}

			if _, err := fmt.Fprintln(outputOf(c), token); err != nil {
				return goerr.Wrap(err, "failed to write token")
			}
			return nil
		},
	}
}
