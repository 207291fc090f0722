// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/dalemusser/rollcall/internal/app/accounts"
	attendancestore "github.com/dalemusser/rollcall/internal/app/store/attendance"
	"github.com/dalemusser/rollcall/internal/app/store/docstore"
	sharelinkstore "github.com/dalemusser/rollcall/internal/app/store/sharelinks"
	studentstore "github.com/dalemusser/rollcall/internal/app/store/students"
	"github.com/dalemusser/rollcall/internal/app/system/indexes"
	"github.com/dalemusser/rollcall/internal/app/system/timeouts"
)

// ConnectDB opens the document store and builds the services on top of it.
// MongoDB is preferred; when it is unreachable the JSON-file store under
// DataDir takes over so the app still runs on a single host.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	db, err := docstore.Open(ctx, docstore.Config{
		MongoURI:       appCfg.MongoURI,
		MongoDatabase:  appCfg.MongoDatabase,
		ConnectTimeout: timeouts.Ping(),
		DataDir:        appCfg.DataDir,
	}, logger)
	if err != nil {
		return DBDeps{}, err
	}

	mgr := accounts.NewManager(db, accounts.Config{
		MaxLoginAttempts:  appCfg.MaxLoginAttempts,
		LockoutDuration:   appCfg.LockoutDuration,
		ResetTokenTTL:     appCfg.ResetTokenExpiry,
		PasswordMinLength: appCfg.PasswordMinLength,
	}, logger)

	return DBDeps{
		Store:      db,
		Accounts:   mgr,
		Students:   studentstore.New(db),
		Attendance: attendancestore.New(db),
		ShareLinks: sharelinkstore.New(db),
	}, nil
}

// EnsureSchema creates the MongoDB indexes. The JSON-file store has no
// indexes; it enforces TTLs by purging expired documents on load.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Store.Kind() != "mongo" {
		logger.Info("skipping index creation", zap.String("backend", deps.Store.Kind()))
		return nil
	}
	return indexes.EnsureAll(ctx, docstore.Database(deps.Store))
}
