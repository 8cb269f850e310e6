// Package main provides the CLI entry point for smaccounts.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AntoineGS/smaccounts/internal/account"
	"github.com/AntoineGS/smaccounts/internal/config"
	"github.com/AntoineGS/smaccounts/internal/events"
	"github.com/AntoineGS/smaccounts/internal/i18n"
	"github.com/AntoineGS/smaccounts/internal/listing"
	"github.com/AntoineGS/smaccounts/internal/metrics"
	"github.com/AntoineGS/smaccounts/internal/store"
	"github.com/AntoineGS/smaccounts/internal/tui"
)

var version = "dev"

var (
	configPath     string
	dbPath         string
	orgOverride    string
	localeOverride string
	verbose        bool
	logFile        *os.File

	listSearch string
	listSort   string
	listDesc   bool

	deleteSearch string
	deleteAll    bool
)

var errNothingToDelete = errors.New("no service accounts to delete")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "smaccounts",
		Version: version,
		Short:   "List, filter and bulk-delete service accounts",
		Long: `smaccounts manages the service accounts of an organization.

Configuration is stored in ~/.config/smaccounts/config.yaml (or config.toml).
Run 'smaccounts init <organization-id>' to create it.
Run without arguments to start the interactive TUI.`,
		RunE:          runInteractive,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				logWriter := cmd.ErrOrStderr()
				// When running interactively (TUI), write logs to a file to avoid corrupting the display
				if tui.IsTerminal() {
					logPath := filepath.Join(os.TempDir(), "smaccounts.log")
					f, err := os.Create(logPath) //nolint:gosec // fixed file name in the temp dir
					if err == nil {
						logFile = f
						logWriter = f
						fmt.Fprintf(cmd.ErrOrStderr(), "Verbose logs: %s\n", logPath)
					}
				}
				slog.SetDefault(slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logFile != nil {
				_ = logFile.Close()
				logFile = nil
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the app config (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Override the database path")
	rootCmd.PersistentFlags().StringVar(&orgOverride, "org", "", "Override the organization id")
	rootCmd.PersistentFlags().StringVar(&localeOverride, "locale", "", "Override the message locale")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	initCmd := &cobra.Command{
		Use:   "init <organization-id>",
		Short: "Initialize app configuration",
		Long: `Initialize the app configuration with the organization whose service
accounts should be managed.

This creates ~/.config/smaccounts/config.yaml.`,
		Args: cobra.ExactArgs(1),
		RunE: runInit,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List service accounts",
		Long: `List the service accounts of the organization.

--search matches case-insensitively against every column; prefix it with
id:, name: or org: to match one column only.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter accounts")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort by name, created or revised")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "Sort in descending order")

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a service account",
		Args:  cobra.ExactArgs(1),
		RunE:  runCreate,
	}

	renameCmd := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a service account",
		Args:  cobra.ExactArgs(2),
		RunE:  runRename,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [id...]",
		Short: "Delete service accounts",
		Long: `Delete service accounts by id, or every account matching --search when
--all is given.`,
		RunE: runDelete,
	}
	deleteCmd.Flags().StringVarP(&deleteSearch, "search", "s", "", "Select the accounts matching this filter")
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "Delete every account matching --search")

	rootCmd.AddCommand(initCmd, listCmd, createCmd, renameCmd, deleteCmd)

	return rootCmd
}

func runInit(cmd *cobra.Command, args []string) error {
	appCfg := &config.AppConfig{
		OrganizationID: args[0],
	}
	if err := appCfg.Validate(); err != nil {
		return err
	}

	if err := config.SaveAppConfig(appCfg); err != nil {
		return fmt.Errorf("saving app config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "App configuration saved to %s\n", config.AppConfigPath())
	fmt.Fprintf(out, "Organization: %s\n", appCfg.OrganizationID)

	return nil
}

// loadConfig reads the app config and applies the persistent flag overrides.
// A missing config file is fine when --org is given.
func loadConfig() (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadAppConfigFrom(configPath)
	} else {
		cfg, err = config.LoadAppConfig()
	}

	switch {
	case err == nil:
	case orgOverride != "" && (errors.Is(err, config.ErrNoConfig) || errors.Is(err, config.ErrNoOrganization)):
		slog.Debug("using flags instead of app config", "reason", err)
		cfg = &config.AppConfig{}
		cfg.ApplyDefaults()
	default:
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if orgOverride != "" {
		cfg.OrganizationID = orgOverride
	}
	if dbPath != "" {
		cfg.Database = config.ExpandPath(dbPath)
	}
	if localeOverride != "" {
		cfg.Locale = localeOverride
	}

	return cfg, cfg.Validate()
}

// environment is everything a command needs once the config is loaded.
type environment struct {
	cfg     *config.AppConfig
	store   *store.Store
	catalog *i18n.Catalog
}

func openEnvironment() (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	catalog, err := i18n.Load(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.Database, err)
	}

	slog.Debug("environment ready", "org", cfg.OrganizationID, "db", cfg.Database, "locale", catalog.Language().String())

	return &environment{cfg: cfg, store: st, catalog: catalog}, nil
}

func (e *environment) Close() error {
	return e.store.Close()
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close() //nolint:errcheck // best-effort cleanup

	if !tui.IsTerminal() {
		return fmt.Errorf("interactive mode requires a terminal; use subcommands (list, create, rename, delete) for non-interactive use")
	}

	return tui.Run(cmd.Context(), tui.Options{
		Backend:        env.store,
		Catalog:        env.catalog,
		Recorder:       metrics.New(),
		Logger:         slog.Default(),
		OrganizationID: env.cfg.OrganizationID,
		MetricsFile:    env.cfg.MetricsFile,
	})
}

func runList(cmd *cobra.Command, _ []string) error {
	column, ok := account.ParseSortColumn(listSort)
	if !ok {
		return fmt.Errorf("invalid sort column %q (must be name, created or revised)", listSort)
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close() //nolint:errcheck // best-effort cleanup

	accounts, err := env.store.List(cmd.Context(), env.cfg.OrganizationID)
	if err != nil {
		return err
	}

	l := listing.New(nil, newCLINotifier(cmd.ErrOrStderr()), env.catalog)
	defer l.Close()

	l.SetItems(accounts)
	l.SetFilter(listSearch)
	if column != account.SortNone {
		l.SetSort(column, !listDesc)
	}

	out := cmd.OutOrStdout()
	rows := l.Rows()
	if len(rows) == 0 {
		if len(accounts) == 0 {
			fmt.Fprintln(out, env.catalog.T("noServiceAccounts"))
			return nil
		}
		fmt.Fprintln(out, env.catalog.T("noResults", map[string]any{"Filter": listSearch}))
		if name, ok := l.Suggest(); ok {
			fmt.Fprintln(out, env.catalog.T("didYouMean", map[string]any{"Name": name}))
		}
		return nil
	}

	return printAccounts(out, rows)
}

func runCreate(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close() //nolint:errcheck // best-effort cleanup

	a, err := env.store.Create(cmd.Context(), env.cfg.OrganizationID, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", env.catalog.T("createdAccount", map[string]any{"Name": a.Name}), a.ID)
	return nil
}

func runRename(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close() //nolint:errcheck // best-effort cleanup

	a, err := env.store.Rename(cmd.Context(), env.cfg.OrganizationID, args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), env.catalog.T("renamedAccount", map[string]any{"Name": a.Name}))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !deleteAll {
		return fmt.Errorf("specify account ids, or --search with --all")
	}
	if len(args) > 0 && (deleteAll || deleteSearch != "") {
		return fmt.Errorf("account ids cannot be combined with --search or --all")
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close() //nolint:errcheck // best-effort cleanup

	ctx := cmd.Context()
	accounts, err := env.store.List(ctx, env.cfg.OrganizationID)
	if err != nil {
		return err
	}

	recorder := metrics.New()
	targets, err := selectForDelete(accounts, args, env.catalog, recorder, newCLINotifier(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	results, err := env.store.Delete(ctx, env.cfg.OrganizationID, account.IDs(targets)...)
	if err != nil {
		return err
	}

	if env.cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(env.cfg.MetricsFile); err != nil {
			slog.Warn("could not write metrics", "path", env.cfg.MetricsFile, "error", err)
		}
	}

	return printDeleteResults(cmd.OutOrStdout(), results, targets)
}

// selectForDelete drives a list the way the TUI does: load the accounts,
// apply the filter, select everything visible and ask for a bulk delete.
// Explicit ids are selected one by one instead. Unknown ids are kept so the
// store reports them.
func selectForDelete(
	accounts []account.ServiceAccount,
	ids []string,
	tr listing.Translator,
	recorder *metrics.Recorder,
	notifier listing.Notifier,
) ([]account.ServiceAccount, error) {
	bus := events.NewBus(slog.Default())
	recorder.Attach(bus)

	var targets []account.ServiceAccount
	bus.Subscribe(events.TypeBulkDeleteRequested, func(e events.Event) {
		if req, ok := e.(events.BulkDeleteRequested); ok {
			targets = req.Accounts
		}
	})

	l := listing.New(bus, recorder.Notifier(notifier), tr)
	defer l.Close()

	l.SetItems(accounts)
	l.SetFilter(deleteSearch)

	var unknown []account.ServiceAccount
	if len(ids) > 0 {
		for _, id := range ids {
			if !slices.ContainsFunc(accounts, func(a account.ServiceAccount) bool { return a.ID == id }) {
				unknown = append(unknown, account.ServiceAccount{ID: id})
				continue
			}
			if !l.IsSelected(id) {
				l.Toggle(id)
			}
		}
		if len(l.Selected()) > 0 || len(unknown) == 0 {
			l.BulkDelete()
		}
	} else {
		l.ToggleAll()
		l.BulkDelete()
	}

	targets = append(targets, unknown...)
	if len(targets) == 0 {
		return nil, errNothingToDelete
	}
	return targets, nil
}
