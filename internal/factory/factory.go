package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/kringleapp/kringle/internal/dependencies/clock"
	"github.com/kringleapp/kringle/internal/dependencies/random"
	"github.com/kringleapp/kringle/internal/services/derange"
	"github.com/kringleapp/kringle/internal/services/directory"
	"github.com/kringleapp/kringle/internal/services/event"
	"github.com/kringleapp/kringle/internal/services/keyderive"
	"github.com/kringleapp/kringle/internal/services/match"
	"github.com/kringleapp/kringle/internal/services/matchcipher"
	"github.com/kringleapp/kringle/internal/services/notify"
	"github.com/kringleapp/kringle/internal/storage"
	"github.com/kringleapp/kringle/internal/storage/memory"
	redisstorage "github.com/kringleapp/kringle/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	EventService    *event.Service
	Directory       *directory.Service
	Deranger        *derange.Service
	KeyDerivation   *keyderive.Service
	MatchCipher     *matchcipher.Service
	Notifier        notify.Notifier
	MatchController *match.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// KeyDerivationConfig holds KDF settings (optional)
	KeyDerivationConfig keyderive.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg.KeyDerivationConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, kdfCfg keyderive.Config, logger *slog.Logger) *App {
	eventService := event.New(store, clk, rnd, logger)
	directoryService := directory.New(store, clk, rnd, logger)
	deranger := derange.New(rnd, logger)
	keyDerivation := keyderive.New(kdfCfg)
	cipher := matchcipher.New()
	notifier := notify.NewLogNotifier(logger)
	matchController := match.NewController(store, directoryService, deranger, keyDerivation, cipher, notifier, clk, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		EventService:    eventService,
		Directory:       directoryService,
		Deranger:        deranger,
		KeyDerivation:   keyDerivation,
		MatchCipher:     cipher,
		Notifier:        notifier,
		MatchController: matchController,
	}
}
