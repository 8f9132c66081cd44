// Package formutil helps re-render a form after a failed submission: the
// user's values are echoed back, with one banner message and per-field
// messages.
//
//	type newRequestData struct {
//		formutil.Base
//		Title string
//	}
//
//	data.Base = formutil.NewBase(w, r, h.Flash, "Post a Request", "/requests")
//	if res := inputval.Validate(in); res.HasErrors() {
//		data.SetResult(res)
//		templates.Render(w, r, "request_new", data)
//		return
//	}
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/ksef/internal/app/system/inputval"
	"github.com/dalemusser/ksef/internal/app/system/viewdata"
)

// Base is embedded in form view models.
type Base struct {
	viewdata.BaseVM
	Error       template.HTML
	FieldErrors map[string]string // struct field name -> message
}

// NewBase builds the page fields for a form.
func NewBase(w http.ResponseWriter, r *http.Request, flashes viewdata.FlashSource, title, backDefault string) Base {
	return Base{BaseVM: viewdata.NewBaseVM(w, r, flashes, title, backDefault)}
}

// SetError sets the banner message. msg is escaped.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// SetResult copies validation failures into the banner and field map.
func (b *Base) SetResult(res *inputval.Result) {
	if res == nil || !res.HasErrors() {
		return
	}
	b.SetError(res.First())
	if b.FieldErrors == nil {
		b.FieldErrors = make(map[string]string, len(res.Errors))
	}
	for _, fe := range res.Errors {
		if _, seen := b.FieldErrors[fe.Field]; !seen && fe.Field != "" {
			b.FieldErrors[fe.Field] = fe.Message
		}
	}
}

// FieldError returns the message for field, or "".
func (b Base) FieldError(field string) string {
	return b.FieldErrors[field]
}
