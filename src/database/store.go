package database

import (
	"context"
	"fmt"
	"log"

	"Backend-Inspectrack/src/config"
	"Backend-Inspectrack/src/store"
)

// OpenStore builds the persistence backend selected by STORE_BACKEND.
func OpenStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		log.Println("⚠️ Using in-memory store; data is lost on restart")
		return store.NewMemory(), nil
	case "mongo", "":
		client, db, err := ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		s := store.NewMongo(client, db)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return s, nil
	case "sqlite":
		db, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		s := store.NewSQL(db, store.DialectSQLite)
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		return s, nil
	case "postgres":
		db, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s := store.NewSQL(db, store.DialectPostgres)
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
}
