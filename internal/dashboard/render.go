package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
)

//go:embed templates/*.html
var templateFS embed.FS

var tmpl = template.Must(template.New("base").Funcs(template.FuncMap{
	"pct": func(v float64) string {
		return fmt.Sprintf("%.0f%%", v)
	},
	"kg": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
	"abs": math.Abs,
}).ParseFS(templateFS, "templates/*.html"))

// RenderHTML writes the dashboard page, or the empty-state prompt when no
// analysis has been stored.
func RenderHTML(w io.Writer, v View) error {
	if err := tmpl.ExecuteTemplate(w, "dashboard.html", v); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}
