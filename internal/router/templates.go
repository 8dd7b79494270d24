package router

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"tinyapp/internal/logger"
	"tinyapp/internal/models"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.gohtml"))

type linkView struct {
	models.Link
	ShortURL string
}

type pageData struct {
	User  models.User
	Link  linkView
	Links []linkView
}

func (router *Router) renderPage(response http.ResponseWriter, name string, data pageData) {
	response.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := templates.ExecuteTemplate(response, name, data); err != nil {
		logger.Log.Debugln("Error rendering the template: ", zap.String("template", name), zap.Error(err))
	}
}
