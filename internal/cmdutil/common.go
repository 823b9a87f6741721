package cmdutil

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	"github.com/ryan-gang/vidmark/internal/config"
	"github.com/ryan-gang/vidmark/internal/logger"
	"github.com/ryan-gang/vidmark/internal/storage"
	"github.com/ryan-gang/vidmark/internal/util"
	rootutil "github.com/ryan-gang/vidmark/util"
)

// LoadConfigFromFlags loads configuration using the config flag from the command
func LoadConfigFromFlags(cmd *cobra.Command) (config.ConfigProvider, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	return config.LoadProvider(configPath)
}

// LoadConfigOrExit loads configuration and exits with error message if it fails
func LoadConfigOrExit(cmd *cobra.Command) config.ConfigProvider {
	cfg, err := LoadConfigFromFlags(cmd)
	if err != nil {
		util.LogError(util.ConfigError, "loading configuration", err)
		os.Exit(1)
	}
	return cfg
}

// CheckDaemonEnabledOrExit checks if daemon is enabled and exits with message if not
func CheckDaemonEnabledOrExit(cfg config.ConfigProvider) {
	if !cfg.IsDaemonEnabled() {
		rootutil.Red.Println("Daemon is not enabled in configuration")
		rootutil.Cyan.Println("Run 'vidmark configure' to enable daemon mode")
		os.Exit(1)
	}
}

// OpenStorageOrExit opens the configured bookmark database
func OpenStorageOrExit(cfg config.ConfigProvider) *storage.Store {
	db, err := storage.Open(cfg.GetDatabasePath())
	if err != nil {
		util.LogError(util.StorageError, "opening database", err)
		os.Exit(1)
	}
	return db
}

// Session bundles the database with a bookmark store kept in sync with it
type Session struct {
	Config config.ConfigProvider
	DB     *storage.Store
	State  *bookmarks.Store
	Sync   *bookmarks.TagSync
	Thunks *bookmarks.Thunks
	Logger logger.LoggerInterface
}

// OpenSession loads config, opens the database and starts tag re-sync.
// When verbose is set every store event is logged to stdout.
func OpenSession(cmd *cobra.Command) *Session {
	cfg := LoadConfigOrExit(cmd)
	db := OpenStorageOrExit(cfg)

	log := logger.Discard()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log = logger.NewWriterLogger(os.Stdout)
	}

	state := bookmarks.NewStore()
	state.Subscribe(func(ev bookmarks.Event) {
		log.Debugf("#%d %s: %d bookmarks, selected tags %v",
			ev.Seq, ev.Kind, len(ev.State.Bookmarks), ev.State.SelectedTagNames())
	})
	if format, err := bookmarks.ParseExportFormat(cfg.GetExportFormat()); err == nil {
		state.SetExportFormat(format)
	}

	sync := bookmarks.NewTagSync(state, db, log)
	sync.Start(cmd.Context())

	return &Session{
		Config: cfg,
		DB:     db,
		State:  state,
		Sync:   sync,
		Thunks: bookmarks.NewThunks(state, db),
		Logger: log,
	}
}

// Load fills the store with every bookmark and every tag, selecting
// selected, and waits for the filtered list to arrive.
func (s *Session) Load(ctx context.Context, selected []string) (bookmarks.State, error) {
	if _, err := s.Thunks.FetchBookmarks(ctx); err != nil {
		return bookmarks.State{}, err
	}
	if _, err := s.Thunks.FetchTags(ctx, selected); err != nil {
		return bookmarks.State{}, err
	}
	if err := s.Sync.Wait(); err != nil {
		return bookmarks.State{}, err
	}
	return s.State.Snapshot(), nil
}

// Close stops re-sync and closes the database
func (s *Session) Close() {
	s.Sync.Stop()
	if err := s.DB.Close(); err != nil {
		util.LogError(util.StorageError, "closing database", err)
	}
}
