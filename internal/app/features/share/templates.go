// internal/app/features/share/templates.go
package share

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "share",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
