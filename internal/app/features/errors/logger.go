// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/ksef/internal/app/system/requestid"
	"go.uber.org/zap"
)

// ErrorLogger logs a hard failure with request context and then renders
// the matching error page. Handlers hold one as ErrLog.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
}

// LogServerError logs msg at error level and renders a 500 page showing
// userMsg with a link to backURL.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	requestid.Logger(r.Context(), e.log).Error(msg, e.fields(r, err)...)
	RenderServerError(w, r, userMsg, backURL)
}

// LogBadRequest logs msg at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	requestid.Logger(r.Context(), e.log).Warn(msg, e.fields(r, err)...)
	RenderBadRequest(w, r, userMsg, backURL)
}
