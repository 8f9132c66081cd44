// internal/app/features/dashboard/handler.go
package dashboard

import (
	uierrors "github.com/dalemusser/ksef/internal/app/features/errors"
	"github.com/dalemusser/ksef/internal/app/features/shared"
	categorystore "github.com/dalemusser/ksef/internal/app/store/categories"
	servicerequeststore "github.com/dalemusser/ksef/internal/app/store/servicerequests"
	userstore "github.com/dalemusser/ksef/internal/app/store/users"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Requests   *servicerequeststore.Store
	Rows       shared.RowBuilder
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Requests: servicerequeststore.New(db),
		Rows: shared.RowBuilder{
			Categories: categorystore.New(db),
			Users:      userstore.New(db),
		},
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
	}
}
