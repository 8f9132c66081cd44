// internal/app/features/home/types.go
package home

import (
	"github.com/dalemusser/ksef/internal/app/features/shared"
	"github.com/dalemusser/ksef/internal/app/system/viewdata"
)

// Counters are the site-wide figures shown to every visitor.
type Counters struct {
	TotalRequests      int64
	CompletedRequests  int64
	VolunteerHeadcount int64
}

// feedModel is everything on the landing page that depends on the viewer.
type feedModel struct {
	FeedLabel string
	Requests  []shared.RequestRow
	CanCreate bool
	Counters
}

type homeData struct {
	viewdata.BaseVM
	feedModel
}
