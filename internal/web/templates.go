// ABOUTME: HTML template rendering for the wiki UI
// ABOUTME: Typed template data structs and per-page render helpers

package web

import (
	"html/template"
	"net/http"

	"github.com/scrawlhq/scrawl/internal/auth"
	"github.com/scrawlhq/scrawl/internal/store"
)

// loginData holds data for the login page template
type loginData struct {
	Title      string
	Error      string
	ReturnPath string
	CSRFToken  string
}

// indexData holds data for the page list template
type indexData struct {
	Title     string
	Login     string
	Caps      auth.Capabilities
	Pages     []string
	CSRFToken string
}

// pageData holds data for the single page template
type pageData struct {
	Title     string
	Login     string
	Caps      auth.Capabilities
	Page      *store.Page
	Rendered  template.HTML
	IsNew     bool
	CSRFToken string
}

func (h *Web) renderLoginPage(w http.ResponseWriter, errorMsg, returnPath, csrfToken string) {
	tmpl := template.Must(template.ParseFS(templateFS,
		"templates/base.html",
		"templates/login.html"))

	data := loginData{
		Title:      "Login",
		Error:      errorMsg,
		ReturnPath: returnPath,
		CSRFToken:  csrfToken,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		h.logger.Error("failed to render login page", "error", err)
	}
}

func (h *Web) renderIndex(w http.ResponseWriter, principal *auth.Principal, pages []string, csrfToken string) {
	tmpl := template.Must(template.ParseFS(templateFS,
		"templates/base.html",
		"templates/index.html"))

	data := indexData{
		Title:     "Wiki",
		Login:     principal.Login,
		Caps:      principal.Caps,
		Pages:     pages,
		CSRFToken: csrfToken,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		h.logger.Error("failed to render index page", "error", err)
	}
}

func (h *Web) renderPage(w http.ResponseWriter, principal *auth.Principal, page *store.Page, rendered template.HTML, isNew bool, csrfToken string) {
	tmpl := template.Must(template.ParseFS(templateFS,
		"templates/base.html",
		"templates/page.html"))

	data := pageData{
		Title:     page.Name,
		Login:     principal.Login,
		Caps:      principal.Caps,
		Page:      page,
		Rendered:  rendered,
		IsNew:     isNew,
		CSRFToken: csrfToken,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		h.logger.Error("failed to render wiki page", "name", page.Name, "error", err)
	}
}
