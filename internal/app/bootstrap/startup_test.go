package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/ksef/internal/app/resources"
	categorystore "github.com/dalemusser/ksef/internal/app/store/categories"
	"github.com/dalemusser/ksef/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:               "mongodb://localhost:27017",
		MongoDatabase:          "ksef",
		SessionKey:             strings.Repeat("k", 32),
		SessionName:            "ksef-session",
		SessionMaxAge:          time.Hour,
		AuditLogAuth:           "all",
		AuditLogRequest:        "db",
		AuditLogAdmin:          "off",
		LoginRateLimit:         20,
		LoginRateLimitUsername: 5,
		LoginRateWindow:        15 * time.Minute,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", func(*AppConfig) {}, false},
		{"blank audit mode means all", func(c *AppConfig) { c.AuditLogAdmin = "" }, false},
		{"bad uri", func(c *AppConfig) { c.MongoURI = "postgres://x" }, true},
		{"no database", func(c *AppConfig) { c.MongoDatabase = "" }, true},
		{"short session key", func(c *AppConfig) { c.SessionKey = "short" }, true},
		{"zero max age", func(c *AppConfig) { c.SessionMaxAge = 0 }, true},
		{"unknown audit mode", func(c *AppConfig) { c.AuditLogRequest = "verbose" }, true},
		{"zero ip limit", func(c *AppConfig) { c.LoginRateLimit = 0 }, true},
		{"zero username limit", func(c *AppConfig) { c.LoginRateLimitUsername = 0 }, true},
		{"zero window", func(c *AppConfig) { c.LoginRateWindow = 0 }, true},
		{"retention off", func(c *AppConfig) { c.AuditRetentionDays = 0 }, false},
		{"negative retention", func(c *AppConfig) { c.AuditRetentionDays = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{}, cfg, zap.NewNop())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig: err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestBackgroundJobs(t *testing.T) {
	cfg := validAppConfig()
	if jobs := backgroundJobs(cfg, DBDeps{}, zap.NewNop()); len(jobs) != 0 {
		t.Errorf("retention off: got %d jobs, want 0", len(jobs))
	}
	cfg.AuditRetentionDays = 30
	db := testutil.SetupTestDB(t)
	jobs := backgroundJobs(cfg, DBDeps{MongoClient: db.Client(), MongoDatabase: db}, zap.NewNop())
	if len(jobs) != 1 || jobs[0].Name != "audit-prune" {
		t.Errorf("retention on: got %+v", jobs)
	}
}

func TestSeedCategories_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := seedCategories(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := seedCategories(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	n, err := db.Collection("categories").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if int(n) != len(categorystore.Defaults) {
		t.Errorf("categories: got %d, want %d", n, len(categorystore.Defaults))
	}
}

func TestSeedCategories_KeepsAdminEdits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateCategory(ctx, strings.ToUpper(categorystore.Defaults[0].Name))

	if err := seedCategories(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	n, err := db.Collection("categories").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if int(n) != len(categorystore.Defaults) {
		t.Errorf("a case-variant of a default should count as present: got %d categories", n)
	}
}

func TestEnsureSchema(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}
	for i := 0; i < 2; i++ {
		if err := EnsureSchema(ctx, &config.CoreConfig{}, validAppConfig(), deps, zap.NewNop()); err != nil {
			t.Fatalf("EnsureSchema run %d: %v", i+1, err)
		}
	}
}

func buildTestHandler(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}

	resources.LoadSharedTemplates()
	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, validAppConfig(), deps, zap.NewNop())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	t.Cleanup(loginLimiter.Stop)
	return h
}

func TestBuildHandler_Routes(t *testing.T) {
	h := buildTestHandler(t)

	tests := []struct {
		name     string
		path     string
		status   int
		location string
	}{
		{"health", "/health", http.StatusOK, ""},
		{"requests need sign-in", "/requests", http.StatusSeeOther, "/login?return=%2Frequests"},
		{"categories need sign-in", "/categories", http.StatusSeeOther, "/login?return=%2Fcategories"},
		{"unknown path", "/no-such-page", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Accept", "text/html")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
			if tt.location != "" && rec.Header().Get("Location") != tt.location {
				t.Errorf("location: got %q, want %q", rec.Header().Get("Location"), tt.location)
			}
		})
	}
}

func TestBuildHandler_RejectsPostWithoutCSRFToken(t *testing.T) {
	h := buildTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("username=a&password=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestBuildHandler_RejectsOversizedForms(t *testing.T) {
	h := buildTestHandler(t)

	tests := []struct {
		name     string
		path     string
		field    string
		size     int
		wantCode int
	}{
		// Oversized bodies are refused before the CSRF check runs.
		{"login over limit", "/login", "username", 200 << 10, http.StatusBadRequest},
		{"action over limit", "/requests/507f1f77bcf86cd799439011", "action", 200 << 10, http.StatusBadRequest},
		{"request form over limit", "/requests/new", "description", 100 << 10, http.StatusBadRequest},
		// Under its own limit the request form reaches CSRF and fails there.
		{"request form under limit", "/requests/new", "description", 32 << 10, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.field + "=" + strings.Repeat("a", tt.size)
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}
