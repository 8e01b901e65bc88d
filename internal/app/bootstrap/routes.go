// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	areasfeature "github.com/baodpham/sanihub/internal/app/features/areas"
	assignmentsfeature "github.com/baodpham/sanihub/internal/app/features/assignments"
	employeesfeature "github.com/baodpham/sanihub/internal/app/features/employees"
	errorsfeature "github.com/baodpham/sanihub/internal/app/features/errors"
	floorsfeature "github.com/baodpham/sanihub/internal/app/features/floors"
	healthfeature "github.com/baodpham/sanihub/internal/app/features/health"
	homefeature "github.com/baodpham/sanihub/internal/app/features/home"
	leavesfeature "github.com/baodpham/sanihub/internal/app/features/leaves"
	loginfeature "github.com/baodpham/sanihub/internal/app/features/login"
	logoutfeature "github.com/baodpham/sanihub/internal/app/features/logout"
	requestsfeature "github.com/baodpham/sanihub/internal/app/features/requests"
	"github.com/baodpham/sanihub/internal/app/features/resource"
	restroomsfeature "github.com/baodpham/sanihub/internal/app/features/restrooms"
	roomsfeature "github.com/baodpham/sanihub/internal/app/features/rooms"
	shiftsfeature "github.com/baodpham/sanihub/internal/app/features/shifts"
	"github.com/baodpham/sanihub/internal/app/system/auth"
	"github.com/baodpham/sanihub/internal/app/system/flash"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// SaniHub initializes the template engine, applies session and CSRF
// middleware, and mounts one router per managed resource plus the
// public pages (home, login) and the health endpoint.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// One-shot toast notifications, stored in their own session.
	toasts := flash.NewQueue(sessionMgr.Store(), logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	db := deps.SaniHubMongoDatabase

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Every state-changing form carries a CSRF token.
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey), csrf.Secure(secure), csrf.Path("/")))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.SaniHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(toasts, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Facility layout
	floorsHandler := floorsfeature.NewHandler(db, sessionMgr, toasts, errLog, logger)
	r.Mount("/floors", floorsfeature.Routes(floorsHandler, sessionMgr))

	areasHandler := areasfeature.NewHandler(db, sessionMgr, toasts, errLog, logger)
	r.Mount("/areas", areasfeature.Routes(areasHandler, sessionMgr))

	roomsHandler := roomsfeature.NewHandler(db, sessionMgr, toasts, errLog, logger)
	r.Mount("/rooms", roomsfeature.Routes(roomsHandler, sessionMgr))

	restroomsHandler := restroomsfeature.NewHandler(db, sessionMgr, toasts, errLog, logger)
	r.Mount("/restrooms", restroomsfeature.Routes(restroomsHandler, sessionMgr))

	// Staff and scheduling
	shiftsHandler := shiftsfeature.NewHandler(db, sessionMgr, toasts, errLog, logger)
	r.Mount("/shifts", shiftsfeature.Routes(shiftsHandler, sessionMgr))

	employeesHandler := employeesfeature.NewHandler(db, sessionMgr, toasts, errLog, logger)
	r.Mount("/employees", employeesfeature.Routes(employeesHandler, sessionMgr))

	assignmentsHandler := assignmentsfeature.NewHandler(db, sessionMgr, toasts, errLog, logger)
	r.Mount("/assignments", assignmentsfeature.Routes(assignmentsHandler, sessionMgr))

	// Review queues
	leavesHandler := leavesfeature.NewHandler(db, sessionMgr, toasts, errLog, logger)
	r.Mount("/leaves", leavesfeature.Routes(leavesHandler, sessionMgr))

	requestsHandler := requestsfeature.NewHandler(db, sessionMgr, toasts, errLog, logger)
	r.Mount("/requests", requestsfeature.Routes(requestsHandler, sessionMgr))

	// Logout drops each resource's per-session dialog state along with
	// the session itself.
	droppers := []resource.SessionDropper{
		floorsHandler.Engine,
		areasHandler.Engine,
		roomsHandler.Engine,
		restroomsHandler.Engine,
		shiftsHandler.Engine,
		employeesHandler.Engine,
		assignmentsHandler.Engine,
		leavesHandler.Engine,
		requestsHandler.Engine,
	}
	logoutHandler := logoutfeature.NewHandler(sessionMgr, droppers, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	return r, nil
}
