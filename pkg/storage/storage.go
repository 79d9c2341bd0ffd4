package storage

import (
	"strings"
	"time"
)

// Supported drivers for saved bentos.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config captures the runtime configuration for the saved-bento store.
// Detailed validation is handled by runtimeconfig.
type Config struct {
	Driver string `json:"driver" mapstructure:"driver"`
	DSN    string `json:"dsn" mapstructure:"dsn"`
	// Cache fronts SQL reads with an in-process repository cache.
	Cache    bool          `json:"cache" mapstructure:"cache"`
	CacheTTL time.Duration `json:"cache_ttl" mapstructure:"cache_ttl"`
}

// NormalizedDriver lowercases the driver and maps sqlite3 to sqlite. An empty
// driver selects the in-memory store.
func (c Config) NormalizedDriver() string {
	driver := strings.ToLower(strings.TrimSpace(c.Driver))
	switch driver {
	case "":
		return DriverMemory
	case "sqlite3":
		return DriverSQLite
	case "pg", "postgresql":
		return DriverPostgres
	default:
		return driver
	}
}

// IsSQL reports whether the driver needs a database connection.
func (c Config) IsSQL() bool {
	switch c.NormalizedDriver() {
	case DriverSQLite, DriverPostgres:
		return true
	default:
		return false
	}
}

// Drivers lists every supported driver.
func Drivers() []string {
	return []string{DriverMemory, DriverSQLite, DriverPostgres}
}
