package site

import (
	"embed"
	"html/template"

	"github.com/okian/archer/internal/domain/signature"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"css": func(s string) template.CSS { return template.CSS(s) },
	// sigsrc trusts only data URLs that decode to an accepted raster image.
	"sigsrc": func(s string) template.URL {
		if _, err := signature.Parse(s); err != nil {
			return ""
		}
		return template.URL(s)
	},
}

// reportTemplate is parsed once; a parse failure is a build defect.
var reportTemplate = template.Must(
	template.New("report.html.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/report.html.tmpl"),
)
