package sites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	"github.com/maboudharam/openbento/internal/logging"
	"github.com/maboudharam/openbento/pkg/interfaces"
	"github.com/maboudharam/openbento/pkg/storage"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

// ErrUnsupportedDriver indicates a storage driver the sites store cannot open.
var ErrUnsupportedDriver = errors.New("sites: unsupported storage driver")

// Store bundles a repository with the function that releases its resources.
type Store struct {
	Repository
	close func() error
}

// Close releases the underlying database, if any.
func (s *Store) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// Open builds the repository selected by cfg. SQL drivers get their schema
// ensured before Open returns.
func Open(ctx context.Context, cfg storage.Config, logger interfaces.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NoOp()
	}
	driver := cfg.NormalizedDriver()

	var (
		sqlDriver string
		dialect   schema.Dialect
	)
	switch driver {
	case storage.DriverMemory:
		logger.Debug("sites.store.opened", "driver", driver)
		return &Store{Repository: NewMemoryRepository()}, nil
	case storage.DriverSQLite:
		sqlDriver, dialect = "sqlite3", sqlitedialect.New()
	case storage.DriverPostgres:
		sqlDriver, dialect = "postgres", pgdialect.New()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}

	sqlDB, err := sql.Open(sqlDriver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sites: open %s: %w", driver, err)
	}
	db := bun.NewDB(sqlDB, dialect)
	cacheService, serializer, err := newCache(cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	repo := NewBunRepositoryWithCache(db, cacheService, serializer)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sites: ensure schema: %w", err)
	}

	logger.Debug("sites.store.opened", "driver", driver, "cache", cfg.Cache)
	return &Store{Repository: repo, close: db.Close}, nil
}

func newCache(cfg storage.Config) (repocache.CacheService, repocache.KeySerializer, error) {
	if !cfg.Cache {
		return nil, nil, nil
	}
	cacheCfg := repocache.DefaultConfig()
	if cfg.CacheTTL > 0 {
		cacheCfg.TTL = cfg.CacheTTL
	}
	service, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("sites: cache: %w", err)
	}
	return service, repocache.NewDefaultKeySerializer(), nil
}
