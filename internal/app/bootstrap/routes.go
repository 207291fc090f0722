// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	attendancefeature "github.com/dalemusser/rollcall/internal/app/features/attendance"
	dashboardfeature "github.com/dalemusser/rollcall/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/rollcall/internal/app/features/errors"
	healthfeature "github.com/dalemusser/rollcall/internal/app/features/health"
	homefeature "github.com/dalemusser/rollcall/internal/app/features/home"
	loginfeature "github.com/dalemusser/rollcall/internal/app/features/login"
	logoutfeature "github.com/dalemusser/rollcall/internal/app/features/logout"
	passwordresetfeature "github.com/dalemusser/rollcall/internal/app/features/passwordreset"
	registerfeature "github.com/dalemusser/rollcall/internal/app/features/register"
	settingsfeature "github.com/dalemusser/rollcall/internal/app/features/settings"
	sharefeature "github.com/dalemusser/rollcall/internal/app/features/share"
	studentsfeature "github.com/dalemusser/rollcall/internal/app/features/students"
	"github.com/dalemusser/rollcall/internal/app/system/auth"
	"github.com/dalemusser/rollcall/internal/app/system/mailer"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		FromAddr: appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Store, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.Accounts, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	registerHandler := registerfeature.NewHandler(deps.Accounts, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	resetHandler := passwordresetfeature.NewHandler(
		deps.Accounts, mail, appCfg.BaseURL, appCfg.ResetTokenExpiry, logger)
	r.Mount("/forgot-password", passwordresetfeature.ForgotRoutes(resetHandler))
	r.Mount("/reset-password", passwordresetfeature.ResetRoutes(resetHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Signed-in areas
	dashboardHandler := dashboardfeature.NewHandler(deps.Students, deps.Attendance, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

	settingsHandler := settingsfeature.NewHandler(deps.Accounts, logger)
	r.Mount("/settings", settingsfeature.Routes(settingsHandler))

	studentsHandler := studentsfeature.NewHandler(deps.Store, deps.Students, logger)
	r.Mount("/students", studentsfeature.Routes(studentsHandler))

	attendanceHandler := attendancefeature.NewHandler(
		deps.Students, deps.Attendance, deps.ShareLinks,
		appCfg.BaseURL, appCfg.ShareLinkExpiry, appCfg.ScanSessionExpiry, logger)
	r.Mount("/attendance", attendancefeature.Routes(attendanceHandler))

	// Shared read-only sheets (no session required)
	shareHandler := sharefeature.NewHandler(deps.Students, deps.Attendance, deps.ShareLinks, logger)
	r.Mount("/share", sharefeature.Routes(shareHandler))

	return r, nil
}
