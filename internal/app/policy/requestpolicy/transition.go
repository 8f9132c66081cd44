package requestpolicy

import "github.com/dalemusser/ksef/internal/domain/models"

// Action is a lifecycle action submitted from the detail page.
type Action int

const (
	ActionUnknown Action = iota
	ActionClaim
	ActionComplete
	ActionCancel
)

// Form values for each action.
const (
	actionClaimValue    = "volunteer"
	actionCompleteValue = "complete"
	actionCancelValue   = "cancel"
)

// ParseAction maps a submitted form value to an Action. Only the exact
// button values match; anything else is ActionUnknown.
func ParseAction(s string) Action {
	switch s {
	case actionClaimValue:
		return ActionClaim
	case actionCompleteValue:
		return ActionComplete
	case actionCancelValue:
		return ActionCancel
	}
	return ActionUnknown
}

func (a Action) String() string {
	switch a {
	case ActionClaim:
		return actionClaimValue
	case ActionComplete:
		return actionCompleteValue
	case ActionCancel:
		return actionCancelValue
	}
	return "unknown"
}

// Outcome is the result of deciding an action against a request.
type Outcome int

const (
	// OutcomeIgnored is a silent no-op.
	OutcomeIgnored Outcome = iota
	OutcomeClaim
	OutcomeUnavailable
	OutcomeComplete
	OutcomeCancel
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClaim:
		return "claim"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeComplete:
		return "complete"
	case OutcomeCancel:
		return "cancel"
	}
	return "ignored"
}

// Mutates reports whether the outcome writes to the request.
func (o Outcome) Mutates() bool {
	return o == OutcomeClaim || o == OutcomeComplete || o == OutcomeCancel
}

// Notice levels.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notice is the one-shot message shown after an action.
type Notice struct {
	Level string
	Text  string
}

// Notice returns the message for o. ok is false for outcomes that show
// nothing.
func (o Outcome) Notice() (n Notice, ok bool) {
	switch o {
	case OutcomeClaim:
		return Notice{NoticeSuccess, "You have successfully volunteered for this request!"}, true
	case OutcomeUnavailable:
		return Notice{NoticeError, "This request is no longer available."}, true
	case OutcomeComplete:
		return Notice{NoticeSuccess, "Request marked as completed!"}, true
	case OutcomeCancel:
		return Notice{NoticeSuccess, "Request has been cancelled."}, true
	}
	return Notice{}, false
}

// Decide returns the outcome of actor performing a on req. It is total:
// every combination yields an outcome, and anything not permitted is
// OutcomeIgnored.
func Decide(a Action, actor Viewer, req models.ServiceRequest) Outcome {
	if !actor.HasProfile() {
		return OutcomeIgnored
	}
	switch a {
	case ActionClaim:
		if !CanClaimRole(actor.Role) {
			return OutcomeIgnored
		}
		if req.Status != models.StatusOpen {
			return OutcomeUnavailable
		}
		return OutcomeClaim

	case ActionComplete:
		if req.VolunteerID == nil || *req.VolunteerID != actor.UserID {
			return OutcomeIgnored
		}
		if req.Status == models.StatusCompleted {
			return OutcomeIgnored
		}
		return OutcomeComplete

	case ActionCancel:
		if req.RequesterID != actor.UserID {
			return OutcomeIgnored
		}
		return OutcomeCancel
	}
	return OutcomeIgnored
}

// Resolve maps the result of applying a decided outcome to the outcome the
// user should see. matched is whether the conditional update found the
// document; a claim that lost a race becomes OutcomeUnavailable and any
// other miss becomes OutcomeIgnored.
func Resolve(decided Outcome, matched bool) Outcome {
	if matched || !decided.Mutates() {
		return decided
	}
	if decided == OutcomeClaim {
		return OutcomeUnavailable
	}
	return OutcomeIgnored
}

// Controls lists which action buttons the detail page offers v for req.
type Controls struct {
	Claim    bool
	Complete bool
	Cancel   bool
}

// ControlsFor returns the action buttons to render. Cancel is offered only
// while the request is still active, although Decide accepts it for any
// status.
func ControlsFor(v Viewer, req models.ServiceRequest) Controls {
	active := req.Status != models.StatusCompleted && req.Status != models.StatusCancelled
	return Controls{
		Claim:    Decide(ActionClaim, v, req) == OutcomeClaim,
		Complete: Decide(ActionComplete, v, req) == OutcomeComplete,
		Cancel:   active && Decide(ActionCancel, v, req) == OutcomeCancel,
	}
}
