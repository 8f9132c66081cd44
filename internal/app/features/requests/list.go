// internal/app/features/requests/list.go
package requests

import (
	"context"
	"net/http"

	"github.com/dalemusser/ksef/internal/app/policy/requestpolicy"
	"github.com/dalemusser/ksef/internal/app/system/normalize"
	"github.com/dalemusser/ksef/internal/app/system/paging"
	"github.com/dalemusser/ksef/internal/app/system/timeouts"
	"github.com/dalemusser/ksef/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeList handles GET /requests.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	viewer := requestpolicy.FromRequest(r)
	f := requestpolicy.Filters{
		Category: normalize.FilterID(query.Get(r, "category")),
		Status:   normalize.FilterToken(query.Get(r, "status")),
		Search:   normalize.QueryParam(query.Get(r, "search")),
	}
	listing, err := requestpolicy.ListingFor(viewer, f)
	if err != nil {
		h.deny(w, r, err, "/")
		return
	}

	start := paging.ParseStart(r)
	q := listing.Query
	q.Skip = paging.Skip(start)
	q.Limit = paging.LimitPlusOne()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reqs, err := h.Requests.Find(ctx, q)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list requests failed", err, "A database error occurred.", "/dashboard")
		return
	}
	page := paging.TrimPage(&reqs, start)
	total, err := h.Requests.Count(ctx, listing.Query)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count requests failed", err, "A database error occurred.", "/dashboard")
		return
	}
	rows, err := h.Rows.Rows(ctx, reqs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "resolve request names failed", err, "A database error occurred.", "/dashboard")
		return
	}
	cats, err := h.Categories.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list categories failed", err, "A database error occurred.", "/dashboard")
		return
	}

	templates.Render(w, r, "requests_list", listData{
		BaseVM:     viewdata.NewBaseVM(w, r, h.SessionMgr, listing.Title, "/dashboard"),
		Banner:     listing.Banner,
		CanCreate:  viewer.CanCreate(),
		Requests:   rows,
		Total:      total,
		Page:       page,
		Range:      paging.ComputeRange(start, len(rows)),
		Categories: categoryOptions(cats),
		Statuses:   statusOptions(),
		Category:   f.Category,
		Status:     f.Status,
		Search:     f.Search,
	})
}
