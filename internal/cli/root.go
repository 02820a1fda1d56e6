package cli

import (
	goflag "flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"culler-cli/internal/config"
	"culler-cli/internal/format"
	"culler-cli/internal/model"
	"culler-cli/internal/store"
	"culler-cli/internal/tui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

type App struct {
	Library    string
	ConfigFile string
	PrettyJSON bool
	Format     string
	LogFile    string

	v   *viper.Viper
	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}
	var view string

	cmd := &cobra.Command{
		Use:          "culler",
		Short:        "Cull a photo library from the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Index a library and start culling unreviewed shots
  culler init ~/Pictures/2024
  culler import
  culler --view unreviewed

  # Scriptable commands
  culler photos list --view picks
  culler photos curate reject 2024/05/IMG_0042.jpg

  # Direct photo lookup (shortcut for: culler photos show <path>)
  culler 2024/05/IMG_0042.jpg
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app, view)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.loadConfig()
	}

	cmd.PersistentFlags().StringVarP(&app.Library, "library", "L", envOr("CULLER_LIBRARY", ""), "Library root (default: config library, else the enclosing library of the working directory)")
	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", envOr("CULLER_CONFIG", ""), "Config file (default ~/.culler/config.yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("CULLER_FORMAT", "json"), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("CULLER_LOG_FILE", ""), "Write logs here while the TUI owns the terminal")
	cmd.Flags().StringVar(&view, "view", "", "Gallery view to open (all|unreviewed|picks|trash)")

	kfs := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(kfs)
	cmd.PersistentFlags().AddGoFlagSet(kfs)

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newPhotosCmd(app))
	cmd.AddCommand(newGroupsCmd(app))
	cmd.AddCommand(newBurstsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func (app *App) loadConfig() error {
	v, err := config.New(app.ConfigFile)
	if err != nil {
		return err
	}
	if app.Library != "" {
		v.Set(config.KeyLibrary, app.Library)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	app.v = v
	app.cfg = cfg
	return nil
}

// libraryStore resolves the store for the configured library: --library, then the
// config file, then the .culler directory enclosing the working directory.
func libraryStore(app *App) (store.Store, error) {
	if app.cfg.Library != "" {
		root, err := filepath.Abs(app.cfg.Library)
		if err != nil {
			return store.Store{}, err
		}
		return store.ForLibrary(root), nil
	}
	dir, err := store.DefaultDir()
	if err != nil {
		return store.Store{}, err
	}
	return store.Store{Dir: dir}, nil
}

// openLibrary is libraryStore for commands that need an initialised library.
func openLibrary(app *App) (store.Store, error) {
	s, err := libraryStore(app)
	if err != nil {
		return store.Store{}, err
	}
	if !s.Exists() {
		return store.Store{}, errNoLibrary{root: s.Root()}
	}
	return s, nil
}

func runTUI(cmd *cobra.Command, app *App, viewName string) error {
	s, err := openLibrary(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	var v *model.View
	if viewName != "" {
		pv, err := model.ParseView(viewName)
		if err != nil {
			return writeErr(cmd, err)
		}
		v = &pv
	}

	// The TUI owns the terminal; keep klog off it.
	var logOut io.Writer = io.Discard
	if app.LogFile != "" {
		f, err := os.OpenFile(app.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return writeErr(cmd, err)
		}
		defer f.Close()
		logOut = f
	}
	klog.LogToStderr(false)
	klog.SetOutput(logOut)
	defer func() {
		klog.Flush()
		klog.LogToStderr(true)
	}()

	return tui.Run(tui.Options{Store: s, Config: app.cfg, View: v})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
