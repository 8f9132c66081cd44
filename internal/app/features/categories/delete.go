// internal/app/features/categories/delete.go
package categories

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/ksef/internal/app/policy/requestpolicy"
	categorystore "github.com/dalemusser/ksef/internal/app/store/categories"
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/app/system/navigation"
	"github.com/dalemusser/ksef/internal/app/system/requestid"
	"github.com/dalemusser/ksef/internal/app/system/timeouts"
	"github.com/dalemusser/ksef/internal/app/system/txn"
	"go.uber.org/zap"
)

// HandleDelete removes a category. Requests that used it keep existing
// with no category. Deleting a missing category is a no-op.
//
// Route: POST /categories/{id}/delete
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, ok := categoryID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ret := navigation.SafeBackURL(r, navigation.CategoriesBackURL)

	cat, err := h.Categories.GetByID(ctx, oid)
	if errors.Is(err, categorystore.ErrNotFound) {
		requestid.Logger(ctx, h.Log).Info("category delete: no document found (idempotent)",
			zap.String("category_id", oid.Hex()))
		http.Redirect(w, r, ret, http.StatusSeeOther)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load category failed", err, "A database error occurred.", "/categories")
		return
	}

	// The category and its request references go together.
	if err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		_, err := h.Categories.Delete(ctx, oid)
		return err
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "delete category failed", err, "A database error occurred.", "/categories")
		return
	}

	h.AuditLog.CategoryDeleted(ctx, r, requestpolicy.FromRequest(r).UserID, oid, cat.Name)
	h.SessionMgr.AddFlash(w, r, auth.FlashSuccess, "Category \""+cat.Name+"\" deleted.")
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
