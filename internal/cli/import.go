package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"culler-cli/internal/library"
	"culler-cli/internal/store"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

const watchDebounce = 2 * time.Second

func newImportCmd(app *App) *cobra.Command {
	var (
		prune bool
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Scan the library and update the index",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openLibrary(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := runImport(ctx, app, s, prune)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !watch {
				return writeOut(cmd, app, map[string]any{"data": res})
			}
			if err := writeOut(cmd, app, map[string]any{"data": res}); err != nil {
				return err
			}

			err = library.Watch(ctx, s.Root(), watchDebounce, func() {
				res, err := runImport(ctx, app, s, prune)
				if err != nil {
					klog.Errorf("re-import failed: %v", err)
					return
				}
				_ = writeOut(cmd, app, map[string]any{"data": res})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", true, "Drop indexed photos that no longer exist on disk")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep running and re-import when files change")
	return cmd
}

func runImport(ctx context.Context, app *App, s store.Store, prune bool) (library.ImportResult, error) {
	r := library.DefaultReader(app.cfg.Exiftool)
	defer r.Close()
	return library.Import(ctx, s.Root(), s, r, library.ImportOptions{
		ScanOptions: library.ScanOptions{Swatches: app.cfg.Swatches},
		Prune:       prune,
	})
}
