// internal/app/features/register/handler.go
package register

import (
	uierrors "github.com/dalemusser/ksef/internal/app/features/errors"
	profilestore "github.com/dalemusser/ksef/internal/app/store/profiles"
	userstore "github.com/dalemusser/ksef/internal/app/store/users"
	"github.com/dalemusser/ksef/internal/app/system/auditlog"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	DB         *mongo.Database
	Users      *userstore.Store
	Profiles   *profilestore.Store
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	// HashCost is the bcrypt cost for new passwords.
	HashCost int
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, audit *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Users:      userstore.New(db),
		Profiles:   profilestore.New(db),
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		ErrLog:     errLog,
		Log:        logger,
		HashCost:   bcrypt.DefaultCost,
	}
}
