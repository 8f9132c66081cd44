// internal/app/features/dashboard/types.go
package dashboard

import (
	"github.com/dalemusser/ksef/internal/app/features/shared"
	"github.com/dalemusser/ksef/internal/app/system/viewdata"
)

// panels holds the request lists for one dashboard. Privileged viewers
// fill Assignments and Available; restricted viewers fill MyRequests.
type panels struct {
	Privileged  bool
	CanCreate   bool
	Assignments []shared.RequestRow
	Available   []shared.RequestRow
	MyRequests  []shared.RequestRow
}

type dashboardData struct {
	viewdata.BaseVM
	panels
}
