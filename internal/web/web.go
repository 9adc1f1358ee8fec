// ABOUTME: Browser-facing wiki UI with session authentication
// ABOUTME: Session guard, login/logout, and capability-gated page actions

package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/scrawlhq/scrawl/internal/auth"
	"github.com/scrawlhq/scrawl/internal/session"
	"github.com/scrawlhq/scrawl/internal/store"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "scrawl_session"

	// CSRFCookieName is the name of the CSRF token cookie
	CSRFCookieName = "scrawl_csrf"
)

// newPageMarkdown seeds the editor for pages that don't exist yet.
const newPageMarkdown = "# A new page\n\nFeel-free to write in Markdown!\n"

// Web handles the UI route chain: everything behind the session guard.
type Web struct {
	pages    store.PageStore
	creds    auth.CredentialStore
	sessions *session.Store
	logger   *slog.Logger
}

// New creates the UI handler set.
func New(pages store.PageStore, creds auth.CredentialStore, sessions *session.Store) *Web {
	return &Web{
		pages:    pages,
		creds:    creds,
		sessions: sessions,
		logger:   slog.Default().With("component", "web"),
	}
}

// RegisterRoutes registers all UI routes on the given mux. The capability a
// route requires is declared here, once, and nowhere else.
func (h *Web) RegisterRoutes(mux *http.ServeMux) {
	// Public routes (no auth required)
	mux.HandleFunc("GET /login", h.handleLoginPage)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("GET /logout", h.handleLogout)

	// Protected routes (session required)
	mux.Handle("GET /{$}", h.requireSession(http.HandlerFunc(h.handleIndex)))
	mux.Handle("GET /wiki/{page}", h.requireSession(http.HandlerFunc(h.handlePage)))

	// Capability-gated actions; the guard runs before the handler, always.
	mux.Handle("POST /save", auth.Chain(http.HandlerFunc(h.handleSave),
		h.requireSession, auth.RequireCapability(auth.CanUpdate)))
	mux.Handle("POST /create", auth.Chain(http.HandlerFunc(h.handleCreate),
		h.requireSession, auth.RequireCapability(auth.CanCreate)))
	mux.Handle("POST /delete", auth.Chain(http.HandlerFunc(h.handleDelete),
		h.requireSession, auth.RequireCapability(auth.CanDelete)))

	h.logger.Info("web routes registered")
}

// requireSession is the UI identity guard. It resolves the session cookie
// to a principal and attaches it to the context; unauthenticated requests
// are redirected to the login page with the intended path preserved.
func (h *Web) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.sessionFromRequest(r)
		if !ok {
			loginURL := "/login"
			if r.Method == http.MethodGet && r.URL.Path != "/" {
				loginURL += "?return=" + url.QueryEscape(r.URL.RequestURI())
			}
			http.Redirect(w, r, loginURL, http.StatusSeeOther)
			return
		}

		principal := &auth.Principal{
			Login: sess.Login,
			Roles: sess.Roles,
			Caps:  auth.Resolve(sess.Roles),
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

// sessionFromRequest resolves the session cookie to a session snapshot.
func (h *Web) sessionFromRequest(r *http.Request) (session.Session, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return session.Session{}, false
	}
	return h.sessions.Get(cookie.Value)
}

// handleLoginPage renders the login form
func (h *Web) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	// If already logged in, go straight to the index
	if _, ok := h.sessionFromRequest(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	r, csrfToken := h.ensureCSRFToken(w, r)
	h.renderLoginPage(w, "", safeReturnPath(r.URL.Query().Get("return")), csrfToken)
}

// handleLogin processes the login form submission
func (h *Web) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		_, csrfToken := h.ensureCSRFToken(w, r)
		h.renderLoginPage(w, "Invalid form data", "/", csrfToken)
		return
	}

	returnPath := safeReturnPath(r.FormValue("return"))

	if !h.validateCSRF(r) {
		_, csrfToken := h.ensureCSRFToken(w, r)
		h.renderLoginPage(w, "Invalid request, please try again", returnPath, csrfToken)
		return
	}

	login := r.FormValue("login")
	password := r.FormValue("password")

	if login == "" || password == "" {
		_, csrfToken := h.ensureCSRFToken(w, r)
		h.renderLoginPage(w, "Login and password required", returnPath, csrfToken)
		return
	}

	// Suspending step: the guard chain waits on the credential backend.
	roles, err := h.creds.Authenticate(r.Context(), login, password)
	if err != nil {
		if errors.Is(err, auth.ErrAuthenticationFailed) {
			_, csrfToken := h.ensureCSRFToken(w, r)
			h.renderLoginPage(w, "Invalid login or password", returnPath, csrfToken)
			return
		}
		h.logger.Error("credential backend failure", "error", err)
		http.Error(w, "authentication backend unavailable", http.StatusInternalServerError)
		return
	}

	sess, err := h.sessions.Create(login, roles)
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("login successful", "login", login)
	http.Redirect(w, r, returnPath, http.StatusSeeOther)
}

// handleLogout destroys the session and clears the cookies
func (h *Web) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		h.sessions.Delete(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleIndex renders the page list
func (h *Web) handleIndex(w http.ResponseWriter, r *http.Request) {
	names, err := h.pages.ListPageNames(r.Context())
	if err != nil {
		h.logger.Error("failed to list pages", "error", err)
		http.Error(w, "failed to load pages", http.StatusInternalServerError)
		return
	}

	principal := auth.FromContext(r.Context())
	_, csrfToken := h.ensureCSRFToken(w, r)
	h.renderIndex(w, principal, names, csrfToken)
}

// handlePage renders a single wiki page, or an editable skeleton for a page
// that doesn't exist yet.
func (h *Web) handlePage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("page")

	page, err := h.pages.GetPageByName(r.Context(), name)
	isNew := false
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Error("failed to load page", "name", name, "error", err)
			http.Error(w, "failed to load page", http.StatusInternalServerError)
			return
		}
		isNew = true
		page = &store.Page{Name: name, Content: newPageMarkdown}
	}

	rendered, err := renderMarkdown(page.Content)
	if err != nil {
		h.logger.Error("failed to render markdown", "name", name, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	principal := auth.FromContext(r.Context())
	_, csrfToken := h.ensureCSRFToken(w, r)
	h.renderPage(w, principal, page, rendered, isNew, csrfToken)
}

// handleSave creates or updates a page body and redirects to it
func (h *Web) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	if !h.validateCSRF(r) {
		http.Error(w, "invalid request", http.StatusForbidden)
		return
	}

	id := r.FormValue("id")
	name := r.FormValue("title")
	content := r.FormValue("markdown")
	isNew := r.FormValue("newPage") == "yes"

	if name == "" {
		http.Error(w, "page title required", http.StatusBadRequest)
		return
	}

	var err error
	if isNew {
		_, err = h.pages.CreatePage(r.Context(), name, content)
		if errors.Is(err, store.ErrDuplicatePage) {
			// Someone saved it first; treat as an update of the existing page.
			var existing *store.Page
			if existing, err = h.pages.GetPageByName(r.Context(), name); err == nil {
				err = h.pages.UpdatePage(r.Context(), existing.ID, content)
			}
		}
	} else {
		err = h.pages.UpdatePage(r.Context(), id, content)
	}

	if err != nil {
		h.logger.Error("failed to save page", "name", name, "error", err)
		http.Error(w, "failed to save page", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/wiki/"+url.PathEscape(name), http.StatusSeeOther)
}

// handleCreate validates the new page name and redirects to its editor
func (h *Web) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	if !h.validateCSRF(r) {
		http.Error(w, "invalid request", http.StatusForbidden)
		return
	}

	name := r.FormValue("name")
	location := "/wiki/" + url.PathEscape(name)
	if name == "" {
		location = "/"
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// handleDelete removes a page and returns to the index
func (h *Web) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	if !h.validateCSRF(r) {
		http.Error(w, "invalid request", http.StatusForbidden)
		return
	}

	id := r.FormValue("id")
	if id == "" {
		http.Error(w, "page id required", http.StatusBadRequest)
		return
	}

	if err := h.pages.DeletePage(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		h.logger.Error("failed to delete page", "id", id, "error", err)
		http.Error(w, "failed to delete page", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ensureCSRFToken generates a CSRF token if not present and sets the cookie
func (h *Web) ensureCSRFToken(w http.ResponseWriter, r *http.Request) (*http.Request, string) {
	cookie, err := r.Cookie(CSRFCookieName)
	if err == nil && cookie.Value != "" {
		return r, cookie.Value
	}

	token, err := generateSecureToken(32)
	if err != nil {
		h.logger.Error("failed to generate CSRF token", "error", err)
		token = "" // Will fail validation, but won't crash
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	return r, token
}

// validateCSRF checks the CSRF token from the form against the cookie
func (h *Web) validateCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	formToken := r.FormValue("csrf_token")
	return formToken != "" && formToken == cookie.Value
}

// safeReturnPath only honors local paths so the login redirect can never
// leave the site.
func safeReturnPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return "/"
	}
	return p
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
