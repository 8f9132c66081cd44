// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds KSEF's app-level configuration. WAFFLE's CoreConfig
// covers ports, TLS, logging, and CORS; everything specific to KSEF
// lives here.
type AppConfig struct {
	// MongoDB
	MongoURI      string
	MongoDatabase string

	// Session cookie
	SessionKey    string        // signs the cookie; also seeds the CSRF key
	SessionName   string        // cookie name (default: ksef-session)
	SessionDomain string        // blank means current host
	SessionMaxAge time.Duration // how long a sign-in lasts

	// Audit destinations per event category: all, db, log, or off.
	AuditLogAuth    string
	AuditLogRequest string
	AuditLogAdmin   string
	// AuditRetentionDays prunes older audit events hourly; 0 keeps them all.
	AuditRetentionDays int

	// SeedCategories inserts the starter catalog on startup when missing.
	SeedCategories bool

	// Login throttling
	LoginRateLimit         int // attempts per client IP per window
	LoginRateLimitUsername int // attempts per username per window
	LoginRateWindow        time.Duration
}
