package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skyops/aeromaint/pkg/persistence"
	"github.com/skyops/aeromaint/pkg/persistence/file"
	"github.com/skyops/aeromaint/pkg/persistence/postgres"
	"github.com/skyops/aeromaint/pkg/persistence/redis"
)

// NewPersistence creates a persistence instance based on the URL scheme.
// file:// paths get the JSON store, postgres:// and redis:// their
// respective backends.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		p, err := postgres.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create PostgreSQL persistence: %w", err))
		}

		return p
	case "redis", "rediss":
		p, err := redis.NewPersistence(ctx, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create Redis persistence: %w", err))
		}

		return p
	default:
		return file.NewPersistence(strings.TrimPrefix(databaseURL, "file://"))
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
