// internal/app/features/shared/templates.go
package shared

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "shared_requests",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
