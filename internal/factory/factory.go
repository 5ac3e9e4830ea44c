// Package factory wires the application components together from a single
// configuration struct.
package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mboer/treasurehunt/internal/clues"
	"github.com/mboer/treasurehunt/internal/dependencies/clock"
	"github.com/mboer/treasurehunt/internal/profanity"
	"github.com/mboer/treasurehunt/internal/services/admin"
	"github.com/mboer/treasurehunt/internal/services/hunt"
	"github.com/mboer/treasurehunt/internal/services/leaderboard"
	"github.com/mboer/treasurehunt/internal/services/registry"
	"github.com/mboer/treasurehunt/internal/session"
	"github.com/mboer/treasurehunt/internal/storage"
	"github.com/mboer/treasurehunt/internal/storage/memory"
	"github.com/mboer/treasurehunt/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeSQLite = "sqlite"
	StorageTypeMemory = "memory"
)

// Session store type constants
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Store        storage.PlayerStore
	SessionStore session.Store
	Clock        clock.Clock
	Chain        *clues.Chain

	Sessions           *session.Service
	Registry           *registry.Service
	HuntController     *hunt.Controller
	LeaderboardService *leaderboard.Service
	AdminService       *admin.Service
}

// Config holds configuration for the application factory
type Config struct {
	// CluesPath is the path to the clue chain YAML file.
	// Ignored when Chain is set directly (tests).
	CluesPath string
	Chain     *clues.Chain

	// StorageType selects the player store backend ("sqlite" or "memory").
	// Defaults to "sqlite".
	StorageType string
	// SQLitePath is the database file (required for sqlite storage)
	SQLitePath string

	// SessionStoreType selects the session backend ("memory" or "redis").
	// Defaults to "memory".
	SessionStoreType string
	// RedisConfig holds Redis settings (required for redis sessions)
	RedisConfig *session.RedisConfig
	// SessionConfig holds session TTL settings (optional)
	SessionConfig session.Config

	// AdminPassword is the shared admin secret; empty disables admin access
	AdminPassword string

	// Logger is the application logger (optional, no-op if nil)
	Logger *slog.Logger
	// Clock is the time source (optional, wall clock if nil)
	Clock clock.Clock
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	chain := cfg.Chain
	if chain == nil {
		if cfg.CluesPath == "" {
			return nil, errors.New("CluesPath or Chain is required")
		}
		loaded, err := clues.Load(cfg.CluesPath)
		if err != nil {
			return nil, fmt.Errorf("loading clue chain: %w", err)
		}
		chain = loaded
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeSQLite
	}

	var store storage.PlayerStore
	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.Open(sqlite.DefaultConfig(cfg.SQLitePath))
		if err != nil {
			return nil, fmt.Errorf("opening player store: %w", err)
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'sqlite' or 'memory'")
	}

	sessionStoreType := cfg.SessionStoreType
	if sessionStoreType == "" {
		sessionStoreType = SessionStoreMemory
	}

	var sessionStore session.Store
	switch sessionStoreType {
	case SessionStoreMemory:
		sessionStore = session.NewMemoryStore()
	case SessionStoreRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when SessionStoreType is redis")
		}
		redisStore, err := session.NewRedisStore(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connecting session store: %w", err)
		}
		sessionStore = redisStore
	default:
		return nil, errors.New("invalid SessionStoreType: must be 'memory' or 'redis'")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	sessionCfg := cfg.SessionConfig
	if sessionCfg.TTL == 0 {
		sessionCfg = session.DefaultConfig()
	}

	filter := profanity.Default()
	registryService := registry.New(store, filter, clk, logger)

	return &App{
		Store:              store,
		SessionStore:       sessionStore,
		Clock:              clk,
		Chain:              chain,
		Sessions:           session.NewService(sessionStore, clk, sessionCfg, logger),
		Registry:           registryService,
		HuntController:     hunt.NewController(store, chain, clk, logger),
		LeaderboardService: leaderboard.New(store),
		AdminService:       admin.New(cfg.AdminPassword, registryService, store, logger),
	}, nil
}

// Close releases the app's storage resources
func (a *App) Close() error {
	sessErr := a.SessionStore.Close()
	if err := a.Store.Close(); err != nil {
		return err
	}
	return sessErr
}
