// internal/app/features/categories/list.go
package categories

import (
	"context"
	"net/http"

	"github.com/dalemusser/ksef/internal/app/store/queries/reportqueries"
	"github.com/dalemusser/ksef/internal/app/system/timeouts"
	"github.com/dalemusser/ksef/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeList renders the catalog with how many requests use each category.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.rows(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list categories failed", err, "A database error occurred.", "/dashboard")
		return
	}
	templates.Render(w, r, "categories_list", listData{
		BaseVM:     viewdata.NewBaseVM(w, r, h.SessionMgr, "Service Categories", "/dashboard"),
		Categories: rows,
	})
}

func (h *Handler) rows(ctx context.Context) ([]categoryRow, error) {
	cats, err := h.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := reportqueries.CountRequestsPerCategory(ctx, h.DB)
	if err != nil {
		return nil, err
	}
	out := make([]categoryRow, 0, len(cats))
	for _, c := range cats {
		n := counts[c.ID]
		out = append(out, categoryRow{
			ID:           c.ID.Hex(),
			Name:         c.Name,
			Description:  c.Description,
			Icon:         c.Icon,
			RequestCount: n.Total,
			OpenCount:    n.Open,
		})
	}
	return out, nil
}
