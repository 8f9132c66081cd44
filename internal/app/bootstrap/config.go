// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/ksef/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minSessionKeyLen is the shortest session key accepted.
const minSessionKeyLen = 32

// appConfigKeys are loaded via WAFFLE's config system:
//   - config files: mongo_uri, session_name, ...
//   - environment: KSEF_MONGO_URI, KSEF_SESSION_NAME, ...
//   - flags: --mongo_uri, --session_name, ...
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "ksef", Desc: "MongoDB database name"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (at least 32 characters)"},
	{Name: "session_name", Default: "ksef-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "336h", Desc: "Session lifetime (e.g., 336h, 24h)"},

	// Audit logging
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_request", Default: "all", Desc: "Request lifecycle event logging: 'all', 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Category admin event logging: 'all', 'db', 'log', or 'off'"},
	{Name: "audit_retention_days", Default: 365, Desc: "Delete audit events older than this many days (0 keeps everything)"},

	{Name: "seed_categories", Default: true, Desc: "Insert the starter service categories on startup"},

	// Login throttling
	{Name: "login_rate_limit", Default: 20, Desc: "Login attempts allowed per client IP per window"},
	{Name: "login_rate_limit_username", Default: 5, Desc: "Login attempts allowed per username per window"},
	{Name: "login_rate_window", Default: "15m", Desc: "Login rate limit window"},
}

// LoadConfig loads WAFFLE core config and KSEF's app config with
// precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "KSEF", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 14*24*time.Hour),

		AuditLogAuth:    appValues.String("audit_log_auth"),
		AuditLogRequest: appValues.String("audit_log_request"),
		AuditLogAdmin:   appValues.String("audit_log_admin"),

		AuditRetentionDays: appValues.Int("audit_retention_days"),

		SeedCategories: appValues.Bool("seed_categories"),

		LoginRateLimit:         appValues.Int("login_rate_limit"),
		LoginRateLimitUsername: appValues.Int("login_rate_limit_username"),
		LoginRateWindow:        appValues.Duration("login_rate_window", 15*time.Minute),
	}
	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configs that would fail later in less obvious
// ways: a malformed Mongo URI, a weak session key, unknown audit modes,
// or a login limiter that blocks everything.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}
	if len(appCfg.SessionKey) < minSessionKeyLen {
		return fmt.Errorf("session_key must be at least %d characters", minSessionKeyLen)
	}
	if appCfg.SessionMaxAge <= 0 {
		return fmt.Errorf("session_max_age must be positive")
	}
	for key, mode := range map[string]string{
		"audit_log_auth":    appCfg.AuditLogAuth,
		"audit_log_request": appCfg.AuditLogRequest,
		"audit_log_admin":   appCfg.AuditLogAdmin,
	} {
		if !validAuditMode(mode) {
			return fmt.Errorf("%s: unknown mode %q (want all, db, log, or off)", key, mode)
		}
	}
	if appCfg.AuditRetentionDays < 0 {
		return fmt.Errorf("audit_retention_days must not be negative")
	}
	if appCfg.LoginRateLimit < 1 || appCfg.LoginRateLimitUsername < 1 || appCfg.LoginRateWindow <= 0 {
		return fmt.Errorf("login rate limits and window must be positive")
	}
	return nil
}

func validAuditMode(m string) bool {
	switch m {
	case "", auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
		return true
	}
	return false
}
