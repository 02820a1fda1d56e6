package cli

import (
	"context"
	"os"
	"path/filepath"

	"culler-cli/internal/config"
	"culler-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var saveConfig bool

	cmd := &cobra.Command{
		Use:   "init [library-root]",
		Short: "Create the photo index for a library (default: the working directory)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := app.cfg.Library
			if len(args) == 1 {
				root = args[0]
			}
			if root == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return writeErr(cmd, err)
				}
				root = cwd
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return writeErr(cmd, err)
			}
			if st, err := os.Stat(root); err != nil || !st.IsDir() {
				return writeErr(cmd, errNoLibrary{root: root})
			}

			s := store.ForLibrary(root)
			// Counting opens the database, which creates and migrates it.
			counts, err := s.Counts(context.Background())
			if err != nil {
				return writeErr(cmd, err)
			}

			var written string
			if saveConfig {
				dir, err := config.Dir()
				if err != nil {
					return writeErr(cmd, err)
				}
				written = filepath.Join(dir, "config.yaml")
				app.v.Set(config.KeyLibrary, root)
				if err := config.WriteDefault(app.v, written); err != nil {
					return writeErr(cmd, err)
				}
			}

			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"library":    root,
					"dir":        s.Dir,
					"sqlitePath": filepath.Join(s.Dir, "index.sqlite"),
					"counts":     counts,
					"config":     written,
				},
			})
		},
	}

	cmd.Flags().BoolVar(&saveConfig, "save-config", false, "Write ~/.culler/config.yaml pointing at this library (never overwrites)")
	return cmd
}
