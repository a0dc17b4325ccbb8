package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/fitadmin/internal/api"
	"github.com/sadopc/fitadmin/internal/config"
	"github.com/sadopc/fitadmin/internal/logging"
	"github.com/sadopc/fitadmin/internal/session"
	"github.com/sadopc/fitadmin/internal/store"
	"github.com/sadopc/fitadmin/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. Without a subcommand it opens
// the admin console.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fitadmin",
		Short: "Terminal admin console for the fitness platform",
		Long: `fitadmin manages users, trainers, enquiries, payments and bookings
of the fitness platform from the terminal.`,
		SilenceUsage: true,
		RunE:         runConsole,
	}

	root.PersistentFlags().String("config", "", "config file (default is the user config dir)")
	root.PersistentFlags().String("base-url", "", "admin API base URL")
	root.PersistentFlags().String("db", "", "local state database path")
	root.PersistentFlags().Bool("debug", false, "log at debug level")
	root.Flags().String("open", "", "location to show first, e.g. /trainers?kyc_status=pending")

	root.AddCommand(newLoginCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newScreensCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// env is everything a command needs to talk to the backend.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	logs    io.Closer
	store   *store.Store
	session *session.Manager
	client  *api.Client
}

// setup loads config, opens the log and the store and restores the
// session. Callers must Close the result.
func setup(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("config path: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetBool("debug"); v {
		cfg.Debug = true
	}

	logger, logs, err := logging.Setup(cfg.LogPath, cfg.Debug)
	if err != nil {
		return nil, err
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	var mgr *session.Manager
	client := api.NewClient(cfg.BaseURL, api.TokenFunc(func() string { return mgr.Token() }), api.WithLogger(logger))
	mgr = session.NewManager(st, client, logger)
	if err := mgr.Init(); err != nil {
		st.Close()
		logs.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	logger.Debug("setup", "base_url", cfg.BaseURL, "db", cfg.DBPath, "authenticated", mgr.State().IsAuthenticated)
	return &env{cfg: cfg, logger: logger, logs: logs, store: st, session: mgr, client: client}, nil
}

func (e *env) Close() error {
	return errors.Join(e.store.Close(), e.logs.Close())
}

// requireSession fails commands that need a signed-in session.
func (e *env) requireSession() error {
	if !e.session.State().IsAuthenticated {
		return errors.New("not signed in; run 'fitadmin login' first")
	}
	return nil
}

func runConsole(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	open, _ := cmd.Flags().GetString("open")
	app := tui.NewApp(tui.Deps{
		Session: e.session,
		Client:  e.client,
		Store:   e.store,
		Config:  e.cfg,
		Logger:  e.logger,
		Open:    open,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run console: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fitadmin %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
