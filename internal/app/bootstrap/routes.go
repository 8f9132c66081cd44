// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	categoriesfeature "github.com/dalemusser/ksef/internal/app/features/categories"
	dashboardfeature "github.com/dalemusser/ksef/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/ksef/internal/app/features/errors"
	healthfeature "github.com/dalemusser/ksef/internal/app/features/health"
	homefeature "github.com/dalemusser/ksef/internal/app/features/home"
	loginfeature "github.com/dalemusser/ksef/internal/app/features/login"
	logoutfeature "github.com/dalemusser/ksef/internal/app/features/logout"
	registerfeature "github.com/dalemusser/ksef/internal/app/features/register"
	requestsfeature "github.com/dalemusser/ksef/internal/app/features/requests"
	"github.com/dalemusser/ksef/internal/app/store/audit"
	userstore "github.com/dalemusser/ksef/internal/app/store/users"
	"github.com/dalemusser/ksef/internal/app/system/auditlog"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/app/system/ratelimit"
	"github.com/dalemusser/ksef/internal/app/system/limits"
	"github.com/dalemusser/ksef/internal/app/system/requestid"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// loginLimiter is built with the handler and stopped in Shutdown.
var loginLimiter *ratelimit.LoginLimiter

// BuildHandler constructs the root router once config, DB, schema, and
// Startup are done.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	// Fresh user and profile data on every request, so a new profile
	// takes effect without signing in again.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase, logger))

	// Dev mode reloads templates on each render.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	db := deps.MongoDatabase
	errLog := errorsfeature.NewErrorLogger(logger)
	audLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Request: appCfg.AuditLogRequest,
		Admin:   appCfg.AuditLogAdmin,
	})
	loginLimiter = ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateLimitUsername, appCfg.LoginRateWindow)

	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.Use(requestid.Middleware(logger))
	r.Use(requestid.AccessLog(logger))
	r.Use(middleware.Recoverer)

	// Health check sits outside CSRF and sessions.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(pr chi.Router) {
		if !secure {
			pr.Use(markPlaintext)
		}
		// Body caps run first so the CSRF check never reads an oversized form.
		pr.Use(limits.Forms(func(w http.ResponseWriter, r *http.Request, err error) {
			errLog.LogBadRequest(w, r, "form body rejected", err, "The submitted form was too large or malformed.", "/")
		}))
		pr.Use(csrf.Protect(csrfKey(appCfg.SessionKey),
			csrf.Secure(secure),
			csrf.Path("/"),
			csrf.ErrorHandler(http.HandlerFunc(errorsHandler.CSRFFailure)),
		))
		// Loads SessionUser into context for auth.CurrentUser(r).
		pr.Use(sessionMgr.LoadSessionUser)

		homeHandler := homefeature.NewHandler(db, sessionMgr, errLog, logger)
		pr.Mount("/", homefeature.Routes(homeHandler))

		registerHandler := registerfeature.NewHandler(db, sessionMgr, audLog, errLog, logger)
		pr.Mount("/register", registerfeature.Routes(registerHandler))

		loginHandler := loginfeature.NewHandler(db, sessionMgr, loginLimiter, audLog, errLog, logger)
		pr.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, audLog, logger)
		pr.Mount("/logout", logoutfeature.Routes(logoutHandler))

		pr.Get("/forbidden", errorsHandler.Forbidden)

		dashboardHandler := dashboardfeature.NewHandler(db, sessionMgr, errLog, logger)
		pr.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

		requestsHandler := requestsfeature.NewHandler(db, sessionMgr, audLog, errLog, logger)
		pr.Mount("/requests", requestsfeature.Routes(requestsHandler, sessionMgr))

		categoriesHandler := categoriesfeature.NewHandler(db, sessionMgr, audLog, errLog, logger)
		pr.Mount("/categories", categoriesfeature.Routes(categoriesHandler, sessionMgr))
	})

	r.NotFound(errorsHandler.NotFound)
	return r, nil
}

// csrfKey derives the 32-byte CSRF key from the session key.
func csrfKey(sessionKey string) []byte {
	sum := sha256.Sum256([]byte("ksef-csrf:" + sessionKey))
	return sum[:]
}

// markPlaintext lets gorilla/csrf accept plain-HTTP requests in dev, where
// there is no TLS to prove the origin.
func markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
