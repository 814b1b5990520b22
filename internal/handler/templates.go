package handler

import (
	"embed"
	"encoding/json"
	"html/template"
)

const dashboardTemplate = "index.html"

//go:embed templates/*.html
var templatesFS embed.FS

// loadTemplates разбирает встроенные шаблоны. marshal вставляет значение
// в <script> как JSON.
func loadTemplates() *template.Template {
	funcs := template.FuncMap{
		"marshal": func(v any) template.JS {
			data, err := json.Marshal(v)
			if err != nil {
				return template.JS("null")
			}
			return template.JS(data)
		},
	}

	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
}
