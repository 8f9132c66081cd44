// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/ksef/internal/app/store/audit"
	"github.com/dalemusser/ksef/internal/app/system/ratelimit"
	"github.com/dalemusser/ksef/internal/app/system/requestid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination settings for each event category.
const (
	ModeAll = "all" // MongoDB and zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// Config picks a destination per event category. Empty means ModeAll.
type Config struct {
	Auth    string
	Request string
	Admin   string
}

// Logger writes audit events to the audit store and/or zap.
// A nil *Logger is a valid no-op.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) mode(category string) string {
	var m string
	switch category {
	case audit.CategoryAuth:
		m = l.config.Auth
	case audit.CategoryRequest:
		m = l.config.Request
	case audit.CategoryAdmin:
		m = l.config.Admin
	}
	if m == "" {
		return ModeAll
	}
	return m
}

func (l *Logger) logToZap(ctx context.Context, event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.RequestID != nil {
		fields = append(fields, zap.String("service_request_id", event.RequestID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	log := requestid.Logger(ctx, l.zapLog)
	if event.Success {
		log.Info("audit event", fields...)
	} else {
		log.Warn("audit event", fields...)
	}
}

// Log routes event according to its category's configured mode.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	m := l.mode(event.Category)
	if m == ModeOff {
		return
	}
	if m == ModeAll || m == ModeLog {
		l.logToZap(ctx, event)
	}
	if (m == ModeAll || m == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			requestid.Logger(ctx, l.zapLog).Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// base fills the request-derived fields shared by every event.
func base(r *http.Request, category, eventType string, success bool) audit.Event {
	e := audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
	if rid := requestid.FromContext(r.Context()); rid != "" {
		e.Details = map[string]string{"request_id": rid}
	}
	return e
}

func withDetail(e audit.Event, k, v string) audit.Event {
	if e.Details == nil {
		e.Details = map[string]string{}
	}
	e.Details[k] = v
	return e
}

/*─────────────────────────────────────────────────────────────────────────────*
| Authentication                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, username string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.UserID = &userID
	l.Log(ctx, withDetail(e, "username", username))
}

func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, username string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailedUserNotFound, false)
	e.FailureReason = "user not found"
	l.Log(ctx, withDetail(e, "attempted_username", username))
}

func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, username string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailedWrongPassword, false)
	e.UserID = &userID
	e.FailureReason = "wrong password"
	l.Log(ctx, withDetail(e, "username", username))
}

// LoginFailedRateLimit records a blocked attempt; limitType is "ip" or "username".
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, username, limitType string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailedRateLimit, false)
	e.FailureReason = "rate limit exceeded"
	e = withDetail(e, "attempted_username", username)
	l.Log(ctx, withDetail(e, "limit_type", limitType))
}

// Logout takes the hex id from the session; a malformed id is recorded
// without a user.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDHex string) {
	e := base(r, audit.CategoryAuth, audit.EventLogout, true)
	if oid, err := primitive.ObjectIDFromHex(userIDHex); err == nil {
		e.UserID = &oid
	}
	l.Log(ctx, e)
}

func (l *Logger) Registration(ctx context.Context, r *http.Request, userID primitive.ObjectID, username, role string) {
	e := base(r, audit.CategoryAuth, audit.EventRegistration, true)
	e.UserID = &userID
	e = withDetail(e, "username", username)
	l.Log(ctx, withDetail(e, "role", role))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Service request lifecycle                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (l *Logger) requestEvent(ctx context.Context, r *http.Request, eventType string, actorID, requestID primitive.ObjectID, details map[string]string) {
	e := base(r, audit.CategoryRequest, eventType, true)
	e.ActorID = &actorID
	e.RequestID = &requestID
	for k, v := range details {
		e = withDetail(e, k, v)
	}
	l.Log(ctx, e)
}

func (l *Logger) RequestCreated(ctx context.Context, r *http.Request, actorID, requestID primitive.ObjectID, title, priority string) {
	l.requestEvent(ctx, r, audit.EventRequestCreated, actorID, requestID, map[string]string{
		"title":    title,
		"priority": priority,
	})
}

func (l *Logger) RequestClaimed(ctx context.Context, r *http.Request, volunteerID, requestID primitive.ObjectID) {
	l.requestEvent(ctx, r, audit.EventRequestClaimed, volunteerID, requestID, nil)
}

func (l *Logger) RequestCompleted(ctx context.Context, r *http.Request, volunteerID, requestID primitive.ObjectID) {
	l.requestEvent(ctx, r, audit.EventRequestCompleted, volunteerID, requestID, nil)
}

// RequestCancelled records a cancel; previousStatus is the status the
// requester saw when submitting.
func (l *Logger) RequestCancelled(ctx context.Context, r *http.Request, requesterID, requestID primitive.ObjectID, previousStatus string) {
	l.requestEvent(ctx, r, audit.EventRequestCancelled, requesterID, requestID, map[string]string{
		"previous_status": previousStatus,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Category administration                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (l *Logger) categoryEvent(ctx context.Context, r *http.Request, eventType string, actorID, categoryID primitive.ObjectID, name string) {
	e := base(r, audit.CategoryAdmin, eventType, true)
	e.ActorID = &actorID
	e = withDetail(e, "category_id", categoryID.Hex())
	l.Log(ctx, withDetail(e, "category_name", name))
}

func (l *Logger) CategoryCreated(ctx context.Context, r *http.Request, actorID, categoryID primitive.ObjectID, name string) {
	l.categoryEvent(ctx, r, audit.EventCategoryCreated, actorID, categoryID, name)
}

func (l *Logger) CategoryUpdated(ctx context.Context, r *http.Request, actorID, categoryID primitive.ObjectID, name string) {
	l.categoryEvent(ctx, r, audit.EventCategoryUpdated, actorID, categoryID, name)
}

func (l *Logger) CategoryDeleted(ctx context.Context, r *http.Request, actorID, categoryID primitive.ObjectID, name string) {
	l.categoryEvent(ctx, r, audit.EventCategoryDeleted, actorID, categoryID, name)
}
