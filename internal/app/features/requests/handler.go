// internal/app/features/requests/handler.go
package requests

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/ksef/internal/app/features/errors"
	"github.com/dalemusser/ksef/internal/app/features/shared"
	"github.com/dalemusser/ksef/internal/app/policy/requestpolicy"
	"github.com/dalemusser/ksef/internal/app/store/audit"
	categorystore "github.com/dalemusser/ksef/internal/app/store/categories"
	servicerequeststore "github.com/dalemusser/ksef/internal/app/store/servicerequests"
	userstore "github.com/dalemusser/ksef/internal/app/store/users"
	"github.com/dalemusser/ksef/internal/app/system/auditlog"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/app/system/requestid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Requests   *servicerequeststore.Store
	Categories *categorystore.Store
	Users      *userstore.Store
	Audit      *audit.Store
	Rows       shared.RowBuilder
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, audLog *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	cats := categorystore.New(db)
	users := userstore.New(db)
	return &Handler{
		Requests:   servicerequeststore.New(db),
		Categories: cats,
		Users:      users,
		Audit:      audit.New(db),
		Rows:       shared.RowBuilder{Categories: cats, Users: users},
		SessionMgr: sessionMgr,
		AuditLog:   audLog,
		ErrLog:     errLog,
		Log:        logger,
	}
}

// deny turns a policy refusal into a redirect with a flash. A missing
// profile always goes home and is logged; other refusals go to fallback.
func (h *Handler) deny(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, requestpolicy.ErrSignedOut):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case errors.Is(err, requestpolicy.ErrNoProfile):
		requestid.Logger(r.Context(), h.Log).Warn("requests: user has no profile",
			zap.String("user_id", requestpolicy.FromRequest(r).UserID.Hex()),
			zap.String("path", r.URL.Path))
		fallback = "/"
	}
	h.SessionMgr.AddFlash(w, r, auth.FlashError, err.Error())
	http.Redirect(w, r, fallback, http.StatusSeeOther)
}
