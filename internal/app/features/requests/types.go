// internal/app/features/requests/types.go
package requests

import (
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/dalemusser/ksef/internal/app/features/shared"
	"github.com/dalemusser/ksef/internal/app/policy/requestpolicy"
	"github.com/dalemusser/ksef/internal/app/system/formutil"
	"github.com/dalemusser/ksef/internal/app/system/paging"
	"github.com/dalemusser/ksef/internal/app/system/viewdata"
	"github.com/dalemusser/ksef/internal/domain/models"
)

// option is one <select> entry.
type option struct {
	Value string
	Label string
}

func statusOptions() []option {
	out := make([]option, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		out = append(out, option{s, models.StatusLabel(s)})
	}
	return out
}

func priorityOptions() []option {
	out := make([]option, 0, len(models.Priorities))
	for _, p := range models.Priorities {
		out = append(out, option{p, models.PriorityLabel(p)})
	}
	return out
}

func categoryOptions(cats []models.Category) []option {
	out := make([]option, 0, len(cats))
	for _, c := range cats {
		out = append(out, option{c.ID.Hex(), c.Name})
	}
	return out
}

type listData struct {
	viewdata.BaseVM
	Banner     string
	CanCreate  bool
	Requests   []shared.RequestRow
	Total      int64
	Page       paging.Result
	Range      paging.Range
	Categories []option
	Statuses   []option

	// echoed filters
	Category string
	Status   string
	Search   string
}

// PageURL links to the listing page starting at start with the current
// filters kept.
func (d listData) PageURL(start int) string {
	v := url.Values{}
	if d.Category != "" {
		v.Set("category", d.Category)
	}
	if d.Status != "" {
		v.Set("status", d.Status)
	}
	if d.Search != "" {
		v.Set("search", d.Search)
	}
	if start > 1 {
		v.Set("start", strconv.Itoa(start))
	}
	if len(v) == 0 {
		return "/requests"
	}
	return "/requests?" + v.Encode()
}

// newInput is a posted service request after trimming. Description has
// already had markup stripped.
type newInput struct {
	Title         string `validate:"required,max=200" label:"Title"`
	Description   string `validate:"required" label:"Description"`
	Category      string `validate:"omitempty,objectid" label:"Category"`
	Priority      string `validate:"required,oneof=low medium high urgent" label:"Priority"`
	Location      string `validate:"max=200" label:"Location"`
	ContactInfo   string `validate:"max=100" label:"Contact info"`
	EstimatedTime string `validate:"max=50" label:"Estimated time"`
}

type newFormData struct {
	formutil.Base
	Title         string
	Description   string
	Category      string
	Priority      string
	Location      string
	ContactInfo   string
	EstimatedTime string
	Categories    []option
	Priorities    []option
}

// historyRow is one entry in the request's lifecycle timeline.
type historyRow struct {
	When      time.Time
	Label     string
	ActorName string
}

type detailData struct {
	viewdata.BaseVM
	ID              string
	Title           string
	DescriptionHTML template.HTML
	Status          string
	StatusLabel     string
	Priority        string
	PriorityLabel   string
	CategoryName    string
	RequesterName   string
	VolunteerName   string
	Location        string
	ContactInfo     string
	EstimatedTime   string
	CreatedAt       time.Time
	CompletedAt     *time.Time
	Controls        requestpolicy.Controls
	History         []historyRow
}
