// internal/app/features/categories/handler.go
package categories

import (
	uierrors "github.com/dalemusser/ksef/internal/app/features/errors"
	categorystore "github.com/dalemusser/ksef/internal/app/store/categories"
	"github.com/dalemusser/ksef/internal/app/system/auditlog"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin-only category catalog.
type Handler struct {
	DB         *mongo.Database
	Categories *categorystore.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, audLog *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Categories: categorystore.New(db),
		SessionMgr: sessionMgr,
		AuditLog:   audLog,
		ErrLog:     errLog,
		Log:        logger,
	}
}
