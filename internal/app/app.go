package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dori/lanes/internal/auth"
	"github.com/dori/lanes/internal/board"
	"github.com/dori/lanes/internal/config"
	"github.com/dori/lanes/internal/credential"
	"github.com/dori/lanes/internal/db"
	"github.com/dori/lanes/internal/logging"
	"github.com/dori/lanes/internal/notify"
	"github.com/gofrs/flock"
)

// BoardKey is where the board snapshot is stored when board.persist is on
const BoardKey = "board"

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	DB       *db.DB
	Accounts *auth.Accounts
	Session  *auth.Session
	Board    *board.Board
	Notifier *notify.Notifier
	Remember credential.Remembered
	DataDir  string

	logCloser io.Closer
	lockFile  *flock.Flock
}

// New creates a new application instance
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger, closer, err := logging.Open(cfg.DataDir, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Session:   &auth.Session{},
		Notifier:  notify.NewNotifier(cfg.Notify.Desktop),
		Remember:  credential.Nop{},
		DataDir:   cfg.DataDir,
		logCloser: closer,
	}

	// Acquire lock to ensure single instance
	if err := app.acquireLock(); err != nil {
		closer.Close()
		return nil, err
	}

	database, err := db.Open(context.Background(), db.PathIn(cfg.DataDir))
	if err != nil {
		app.Close()
		return nil, err
	}
	app.DB = database
	app.Accounts = auth.NewAccounts(database, cfg.Auth.BcryptCost, logger.WithPrefix("auth"))

	b, err := app.openBoard(context.Background())
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Board = b

	if cfg.Auth.RememberEmail {
		ring, err := credential.Open(cfg.DataDir)
		if err != nil {
			logger.Warn("keyring unavailable, email will not be remembered", "err", err)
		} else {
			app.Remember = ring
		}
	}

	logger.Info("started", "data_dir", cfg.DataDir, "persist", cfg.Board.Persist)
	return app, nil
}

// openBoard builds the board from the stored snapshot, or from the seed
// when persistence is off or nothing is stored yet
func (a *App) openBoard(ctx context.Context) (*board.Board, error) {
	opts := []board.Option{board.WithLogger(a.Logger.WithPrefix("board"))}

	if !a.Config.Board.Persist {
		return board.New(board.Seed(), opts...)
	}

	snap, err := LoadSnapshot(ctx, a.DB)
	if err != nil {
		return nil, err
	}
	b, err := board.New(snap, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading board: %w", err)
	}

	b.Subscribe(func(s board.Snapshot) {
		if err := SaveSnapshot(context.Background(), a.DB, s); err != nil {
			a.Logger.Error("saving board", "err", err)
		}
	})
	return b, nil
}

// LoadSnapshot reads the stored board, falling back to the seed board
func LoadSnapshot(ctx context.Context, store *db.DB) (board.Snapshot, error) {
	data, err := store.Get(ctx, BoardKey)
	if errors.Is(err, db.ErrNotFound) {
		return board.Seed(), nil
	}
	if err != nil {
		return board.Snapshot{}, err
	}

	var snap board.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return board.Snapshot{}, fmt.Errorf("decoding board: %w", err)
	}
	return snap, nil
}

// SaveSnapshot stores the board
func SaveSnapshot(ctx context.Context, store *db.DB, snap board.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding board: %w", err)
	}
	return store.Put(ctx, BoardKey, data)
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "lanes.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of lanes is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	if a.logCloser != nil {
		a.logCloser.Close()
	}

	return errors.Join(errs...)
}
