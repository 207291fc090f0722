// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down the background sweeper and the document store.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if tokenSweeper != nil {
		tokenSweeper.Stop()
	}

	if deps.Store != nil {
		logger.Info("closing document store", zap.String("backend", deps.Store.Kind()))
		if err := deps.Store.Close(ctx); err != nil {
			logger.Error("document store close failed", zap.Error(err))
			return err
		}
	}
	return nil
}
