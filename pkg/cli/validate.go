package cli

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/lexdesk/casework/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var dirCfg config.DirectoryFile

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a directory file without touching storage",
		Flags:   dirCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			w := outputOf(c)

			dir, err := dirCfg.Load()
			if err != nil {
				color.New(color.FgRed, color.Bold).Fprint(w, "✗ ")
				color.New(color.FgRed).Fprintf(w, "%s: %s\n", dirCfg.Path(), err.Error())
				return err
			}

			color.New(color.FgGreen, color.Bold).Fprint(w, "✓ ")
			color.New(color.FgGreen).Fprintf(w, "%s is valid\n", dirCfg.Path())
			color.New(color.FgCyan).Fprintf(w, "  users:   %d\n", len(dir.Users))
			color.New(color.FgCyan).Fprintf(w, "  clients: %d\n", len(dir.Clients))
			color.New(color.FgCyan).Fprintf(w, "  cases:   %d\n", len(dir.Cases))
			return nil
		},
	}
}

func outputOf(c *cli.Command) io.Writer {
	if root := c.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}
