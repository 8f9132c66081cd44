// internal/app/features/home/handler.go
package home

import (
	uierrors "github.com/dalemusser/ksef/internal/app/features/errors"
	"github.com/dalemusser/ksef/internal/app/features/shared"
	categorystore "github.com/dalemusser/ksef/internal/app/store/categories"
	profilestore "github.com/dalemusser/ksef/internal/app/store/profiles"
	servicerequeststore "github.com/dalemusser/ksef/internal/app/store/servicerequests"
	userstore "github.com/dalemusser/ksef/internal/app/store/users"
	"github.com/dalemusser/ksef/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Requests *servicerequeststore.Store
	Profiles *profilestore.Store
	Rows     shared.RowBuilder
	Flash    viewdata.FlashSource
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, flash viewdata.FlashSource, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Requests: servicerequeststore.New(db),
		Profiles: profilestore.New(db),
		Rows: shared.RowBuilder{
			Categories: categorystore.New(db),
			Users:      userstore.New(db),
		},
		Flash:  flash,
		ErrLog: errLog,
		Log:    logger,
	}
}
