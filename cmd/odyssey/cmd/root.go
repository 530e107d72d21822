package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/odyssey/config"
	"github.com/rustyeddy/odyssey/internal/logger"
	"github.com/rustyeddy/odyssey/journal"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	envFile    string
	storeType  string
	storePath  string

	cfg *config.Config
	log *slog.Logger
}

// NewRootCmd builds the odyssey command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "odyssey",
		Short: "An options trading journal",
		Long: `Odyssey keeps a journal of options trades, deposits and withdrawals
across any number of accounts.

It provides tools for:
  - Logging trades for 19 option strategies with commissions
  - Computing raw and net P&L, return on risk and holding time
  - Summaries, P&L curves and activity logs per account
  - Exporting to CSV and Org mode
  - Serving the journal over HTTP

Complete documentation is available at https://github.com/rustyeddy/odyssey`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config file (YAML or JSON)")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file with ODYSSEY_* overrides")
	pf.StringVar(&a.storeType, "store", "", "store type: memory, file or sqlite")
	pf.StringVarP(&a.storePath, "db", "d", "", "path to the journal file or SQLite database")

	root.AddCommand(
		newAccountCmd(a),
		newTradeCmd(a),
		newCashCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newSummaryCmd(a),
		newStrategiesCmd(),
		newExportCmd(a),
		newServeCmd(a),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// setup loads the configuration: defaults, then the config file, then
// the environment, then flags.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(a.configPath); err != nil {
			return err
		}
	}

	env, err := config.Environ(a.envFile)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return err
	}
	if a.storeType != "" {
		cfg.Store.Type = a.storeType
	}
	if a.storePath != "" {
		cfg.Store.Path = a.storePath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	l, err := logger.Init(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, l
	return nil
}

func (a *app) openStore() (journal.Store, error) {
	switch a.cfg.Store.Type {
	case config.StoreMemory:
		return journal.NewMemoryStore(), nil
	case config.StoreSQLite:
		return journal.NewSQLiteStore(a.cfg.Store.Path)
	default:
		return journal.NewFileStore(a.cfg.Store.Path), nil
	}
}

// session is an opened journal: the book and the store it came from.
type session struct {
	book  *journal.Book
	store journal.Store
}

func (a *app) open(ctx context.Context) (*session, error) {
	st, err := a.openStore()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	book, created, err := journal.Load(ctx, st, a.cfg.Settings())
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load journal: %w", err)
	}
	if created {
		a.log.Info("created journal", "store", a.cfg.Store.Type, "path", a.cfg.Store.Path)
	}
	a.log.Debug("journal loaded", "accounts", len(book.Selector().Accounts()), "active", book.Selector().ActiveID())
	return &session{book: book, store: st}, nil
}

// save writes the whole book back.
func (s *session) save(ctx context.Context) error {
	return s.store.Save(ctx, s.book.Document())
}

// saveActive writes back only the active account's collection.
func (s *session) saveActive(ctx context.Context) error {
	return s.store.Save(ctx, s.book.ActiveDocument())
}

func (s *session) Close() error { return s.store.Close() }

// withSession opens the journal, runs fn and closes the store.
func (a *app) withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}
