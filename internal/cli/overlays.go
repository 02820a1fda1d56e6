package cli

import (
	"culler-cli/internal/model"

	"github.com/spf13/cobra"
)

type groupRow struct {
	Label      string `json:"label"`
	Start      int    `json:"start"`
	PhotoCount int    `json:"photoCount"`
	FirstKey   string `json:"firstKey,omitempty"`
}

type burstRow struct {
	model.Burst
	Keys []string `json:"keys"`
}

func newGroupsCmd(app *App) *cobra.Command {
	var f pageFlags

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Show how a page is split into groups (day, folder)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openLibrary(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := loadPage(cmd.Context(), app, s, f)
			if err != nil {
				return writeErr(cmd, err)
			}
			rows := []groupRow{}
			start := 0
			for _, g := range p.Groups {
				r := groupRow{Label: g.Label, Start: start, PhotoCount: g.PhotoCount}
				if start < len(p.Photos) {
					r.FirstKey = p.Photos[start].Key
				}
				rows = append(rows, r)
				start += g.PhotoCount
			}
			return writeOut(cmd, app, map[string]any{"data": rows, "meta": pageMeta(p)})
		},
	}
	f.register(cmd)
	return cmd
}

func newBurstsCmd(app *App) *cobra.Command {
	var f pageFlags

	cmd := &cobra.Command{
		Use:   "bursts",
		Short: "List the bursts detected in a page",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openLibrary(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := loadPage(cmd.Context(), app, s, f)
			if err != nil {
				return writeErr(cmd, err)
			}
			rows := []burstRow{}
			for _, b := range p.Bursts {
				r := burstRow{Burst: b}
				for i := b.StartIndex; i < b.End() && i < len(p.Photos); i++ {
					r.Keys = append(r.Keys, p.Photos[i].Key)
				}
				rows = append(rows, r)
			}
			return writeOut(cmd, app, map[string]any{"data": rows, "meta": pageMeta(p)})
		},
	}
	f.register(cmd)
	return cmd
}
