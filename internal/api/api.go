// ABOUTME: JSON API for programmatic wiki access
// ABOUTME: Token endpoint plus bearer-token-guarded page CRUD

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/scrawlhq/scrawl/internal/auth"
	"github.com/scrawlhq/scrawl/internal/store"
)

// API handles the machine-facing route chain: everything behind the token
// guard, plus the token endpoint itself.
type API struct {
	pages  store.PageStore
	codec  *auth.TokenCodec
	logger *slog.Logger
}

// New creates the API handler set.
func New(pages store.PageStore, codec *auth.TokenCodec) *API {
	return &API{
		pages:  pages,
		codec:  codec,
		logger: slog.Default().With("component", "api"),
	}
}

// RegisterRoutes registers all API routes on the given mux. Each route
// declares the capability it requires at registration; the guards run in
// order and a rejected request never reaches the handler.
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	// Token issuance authenticates with login/password headers, not a token.
	mux.HandleFunc("GET /api/token", a.handleToken)

	identity := auth.TokenMiddleware(a.codec)

	mux.Handle("GET /api/pages", auth.Chain(http.HandlerFunc(a.handleListPages),
		identity, auth.RequireCapability(auth.CanRead)))
	mux.Handle("GET /api/pages/{id}", auth.Chain(http.HandlerFunc(a.handleGetPage),
		identity, auth.RequireCapability(auth.CanRead)))
	mux.Handle("POST /api/pages", auth.Chain(http.HandlerFunc(a.handleCreatePage),
		identity, auth.RequireCapability(auth.CanCreate)))
	mux.Handle("PUT /api/pages/{id}", auth.Chain(http.HandlerFunc(a.handleUpdatePage),
		identity, auth.RequireCapability(auth.CanUpdate)))
	mux.Handle("DELETE /api/pages/{id}", auth.Chain(http.HandlerFunc(a.handleDeletePage),
		identity, auth.RequireCapability(auth.CanDelete)))

	a.logger.Info("api routes registered")
}

// handleToken exchanges a login/password header pair for a signed token.
// The response is the bare token as text/plain.
func (a *API) handleToken(w http.ResponseWriter, r *http.Request) {
	login := r.Header.Get("login")
	password := r.Header.Get("password")

	token, err := a.codec.Issue(r.Context(), login, password)
	if err != nil {
		if errors.Is(err, auth.ErrAuthenticationFailed) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		a.logger.Error("token issuance failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(token)); err != nil {
		a.logger.Error("failed to write token response", "error", err)
	}
}

func (a *API) handleListPages(w http.ResponseWriter, r *http.Request) {
	names, err := a.pages.ListPageNames(r.Context())
	if err != nil {
		a.logger.Error("failed to list pages", "error", err)
		writeFailure(w, http.StatusInternalServerError, "failed to list pages")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeSuccess(w, http.StatusOK, map[string]any{"pages": names})
}

func (a *API) handleGetPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	page, err := a.pages.GetPage(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "page not found")
			return
		}
		a.logger.Error("failed to get page", "id", id, "error", err)
		writeFailure(w, http.StatusInternalServerError, "failed to get page")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"page": pagePayload(page)})
}

func (a *API) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeFailure(w, http.StatusBadRequest, "page name required")
		return
	}

	page, err := a.pages.CreatePage(r.Context(), req.Name, req.Markdown)
	if err != nil {
		if errors.Is(err, store.ErrDuplicatePage) {
			writeFailure(w, http.StatusConflict, "page already exists")
			return
		}
		a.logger.Error("failed to create page", "name", req.Name, "error", err)
		writeFailure(w, http.StatusInternalServerError, "failed to create page")
		return
	}

	a.logger.Info("page created", "id", page.ID, "name", page.Name)
	writeSuccess(w, http.StatusCreated, map[string]any{"id": page.ID})
}

func (a *API) handleUpdatePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := a.pages.UpdatePage(r.Context(), id, req.Markdown); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "page not found")
			return
		}
		a.logger.Error("failed to update page", "id", id, "error", err)
		writeFailure(w, http.StatusInternalServerError, "failed to update page")
		return
	}

	a.logger.Info("page updated", "id", id)
	writeSuccess(w, http.StatusOK, nil)
}

func (a *API) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := a.pages.DeletePage(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeFailure(w, http.StatusNotFound, "page not found")
			return
		}
		a.logger.Error("failed to delete page", "id", id, "error", err)
		writeFailure(w, http.StatusInternalServerError, "failed to delete page")
		return
	}

	a.logger.Info("page deleted", "id", id)
	writeSuccess(w, http.StatusOK, nil)
}

// pageRequest is the body for create and update calls.
type pageRequest struct {
	Name     string `json:"name"`
	Markdown string `json:"markdown"`
}

func pagePayload(p *store.Page) map[string]any {
	return map[string]any{
		"id":       p.ID,
		"name":     p.Name,
		"markdown": p.Content,
	}
}

// writeSuccess writes the success envelope, merging in any extra fields.
func writeSuccess(w http.ResponseWriter, status int, extra map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// writeFailure writes the failure envelope with an error message.
func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}
