// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/dalemusser/rollcall/internal/app/resources"
	"github.com/dalemusser/rollcall/internal/app/system/auth"
	"github.com/dalemusser/rollcall/internal/app/system/viewdata"
	"github.com/dalemusser/rollcall/internal/app/system/workers"
)

// tokenSweeper runs for the life of the process; Shutdown stops it.
var tokenSweeper *workers.TokenCleanup

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	viewdata.SetSiteName(appCfg.SiteName)

	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		return err
	}

	tokenSweeper = workers.NewTokenCleanup(deps.Accounts, logger, appCfg.TokenSweepInterval)
	tokenSweeper.Start()

	return nil
}
