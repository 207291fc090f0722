package docstore

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Config selects and parameterizes the backend.
type Config struct {
	MongoURI       string
	MongoDatabase  string
	ConnectTimeout time.Duration // mongo server-selection budget
	DataDir        string        // jsonfile fallback root
}

// Open connects to MongoDB, and when that fails falls back to the JSON-file
// backend so the app stays usable without a database server. The fallback is
// logged loudly: it is meant for development and small single-host installs,
// not as a silent production degradation.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (DB, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 2 * time.Second
	}

	db, err := OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.ConnectTimeout)
	if err == nil {
		logger.Info("document store ready",
			zap.String("backend", db.Kind()),
			zap.String("database", cfg.MongoDatabase))
		return db, nil
	}

	logger.Warn("MongoDB unavailable, falling back to JSON-file store",
		zap.Error(err),
		zap.String("data_dir", cfg.DataDir))

	fallback, ferr := OpenJSONFile(cfg.DataDir)
	if ferr != nil {
		return nil, ferr
	}
	logger.Info("document store ready",
		zap.String("backend", fallback.Kind()),
		zap.String("data_dir", cfg.DataDir))
	return fallback, nil
}
