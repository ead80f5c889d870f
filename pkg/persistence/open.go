package persistence

import (
	"context"
	"fmt"
	"os"
)

// Open creates a store for the given driver name. For postgres, the
// DATABASE_URL environment variable takes precedence over the configured
// connection string.
func Open(ctx context.Context, driver, path, url string) (Store, error) {
	switch driver {
	case "", "memory":
		return NewInMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(ctx, path)
	case "postgres":
		if env := os.Getenv("DATABASE_URL"); env != "" {
			url = env
		}
		if url == "" {
			return nil, fmt.Errorf("postgres driver requires a connection string")
		}
		return NewPostgresStore(ctx, url)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}
