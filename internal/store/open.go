package store

import (
	"context"
	"fmt"

	"ritmo-backend/internal/config"
)

// Open builds the UserStore selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (UserStore, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		return NewMemoryStore(), nil
	case config.StoreDriverPostgres:
		return NewPostgresStore(ctx, cfg.DatabaseDSN)
	case config.StoreDriverMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
	}
}
