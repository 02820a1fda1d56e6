package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"culler-cli/internal/library"
	"culler-cli/internal/model"
	"culler-cli/internal/session"
	"culler-cli/internal/store"

	"github.com/spf13/cobra"
)

func newPhotosCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photos",
		Short: "List, inspect, curate and export photos",
	}
	cmd.AddCommand(newPhotosListCmd(app))
	cmd.AddCommand(newPhotosShowCmd(app))
	cmd.AddCommand(newPhotosCurateCmd(app))
	cmd.AddCommand(newPhotosExportCmd(app))
	return cmd
}

type pageFlags struct {
	view   string
	offset int
	limit  int
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.view, "view", model.ViewAll, "View (all|unreviewed|picks|trash)")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "Index of the first photo")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Page size (default: page.size from config)")
}

func loadPage(ctx context.Context, app *App, s store.Store, f pageFlags) (model.Page, error) {
	v, err := model.ParseView(f.view)
	if err != nil {
		return model.Page{}, err
	}
	limit := f.limit
	if limit <= 0 {
		limit = app.cfg.PageSize
	}
	return library.BuildPage(ctx, s, v, f.offset, limit, clusterOptions(app))
}

func clusterOptions(app *App) library.ClusterOptions {
	return library.ClusterOptions{
		GroupBy:  app.cfg.GroupBy,
		BurstGap: app.cfg.BurstGap,
		BurstMin: app.cfg.BurstMin,
	}
}

func pageMeta(p model.Page) map[string]any {
	return map[string]any{
		"view":   p.View,
		"offset": p.Offset,
		"count":  len(p.Photos),
		"total":  p.Total,
	}
}

func newPhotosListCmd(app *App) *cobra.Command {
	var f pageFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of a view in capture order",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openLibrary(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := loadPage(cmd.Context(), app, s, f)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p.Photos, "meta": pageMeta(p)})
		},
	}
	f.register(cmd)
	return cmd
}

func newPhotosShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <path>",
		Short: "Show one photo (path relative to the library root, or a file path)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openLibrary(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := s.GetPhoto(cmd.Context(), photoKey(s.Root(), args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
}

type curateOutcome struct {
	Key   string         `json:"key"`
	OK    bool           `json:"ok"`
	Error string         `json:"error,omitempty"`
	Photo *model.Photo   `json:"photo,omitempty"`
	Set   model.Curation `json:"set"`
}

func newPhotosCurateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curate <pick|reject|unflag|0-5> <path>...",
		Short: "Pick, reject, unflag or rate photos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := session.ParseAction(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(args) < 2 {
				return writeErr(cmd, errNoTargets)
			}
			s, err := openLibrary(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()

			var reqs []session.CurateRequest
			for _, arg := range args[1:] {
				p, err := s.GetPhoto(ctx, photoKey(s.Root(), arg))
				if err != nil {
					return writeErr(cmd, err)
				}
				reqs = append(reqs, session.CurateRequest{Key: p.Key, Action: a, Curation: a.Curation(p)})
			}

			var out []curateOutcome
			failed := 0
			for _, res := range session.RunCurations(ctx, s, reqs) {
				o := curateOutcome{Key: res.Request.Key, OK: res.Err == nil, Set: res.Request.Curation}
				if res.Err != nil {
					failed++
					o.Error = res.Err.Error()
				} else if p, err := s.GetPhoto(ctx, res.Request.Key); err == nil {
					o.Photo = &p
				}
				out = append(out, o)
			}
			if err := writeOut(cmd, app, map[string]any{"data": out}); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d curations failed", failed, len(reqs))
			}
			return nil
		},
	}
	return cmd
}

func newPhotosExportCmd(app *App) *cobra.Command {
	var (
		view string
		dest string
	)

	cmd := &cobra.Command{
		Use:   "export --dest <dir>",
		Short: "Copy every photo in a view (default: picks) to a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(dest) == "" {
				return writeErr(cmd, fmt.Errorf("--dest is required"))
			}
			v, err := model.ParseView(view)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := openLibrary(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			photos, _, err := s.ListPhotos(cmd.Context(), v, 0, 0)
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := library.Export(cmd.Context(), s.Root(), dest, photos)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"view": v.Name, "dest": dest, "matched": len(photos), "copied": n},
			})
		},
	}
	cmd.Flags().StringVar(&view, "view", model.ViewPicks, "View to export")
	cmd.Flags().StringVar(&dest, "dest", "", "Destination directory")
	return cmd
}

// photoKey turns a command-line path into an index key. Existing files are resolved
// against the library root; anything else is taken as a key.
func photoKey(root, arg string) string {
	p := arg
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			if _, err := os.Stat(abs); err == nil {
				p = abs
			}
		}
	}
	if filepath.IsAbs(p) {
		if rel, err := filepath.Rel(root, p); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Clean(arg))
}
