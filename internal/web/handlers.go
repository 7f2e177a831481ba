package web

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/modlock/internal/config"
	"github.com/hpungsan/modlock/internal/db"
	"github.com/hpungsan/modlock/internal/errors"
	"github.com/hpungsan/modlock/internal/freeze"
	"github.com/hpungsan/modlock/internal/hook"
	"github.com/hpungsan/modlock/internal/ops"
)

// localUser identifies the single local editor on this surface.
const localUser = "local"

// allowAll authorizes every edit. The web UI is a local single-user tool;
// deployments that need real authorization inject their own Authorizer.
type allowAll struct{}

func (allowAll) CanEdit(user, itemID string) bool { return true }

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
	hooks    *hook.Registry
	ic       *freeze.Interceptor
	nonce    *Nonce
}

// NewHandlers wires the freeze interceptor into the interactive surface.
// auth may be nil, which means every local edit is allowed.
func NewHandlers(database *sql.DB, cfg *config.Config, renderer *Renderer, auth freeze.Authorizer) *Handlers {
	if auth == nil {
		auth = allowAll{}
	}
	nonce := NewNonce(cfg.NonceSecret)

	store := db.Store{DB: database}
	ic := freeze.FromConfig(store, store, cfg, auth, nonce)

	hooks := hook.NewRegistry()
	ic.BindSave(hooks)

	return &Handlers{
		db:       database,
		cfg:      cfg,
		renderer: renderer,
		hooks:    hooks,
		ic:       ic,
		nonce:    nonce,
	}
}

// HandleList handles GET /items — list items, newest modified first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	input := ops.ListInput{
		Type:   r.URL.Query().Get("type"),
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	}

	result, err := ops.List(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Items",
			Version: h.renderer.version,
			Nav:     "items",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		Type:       input.Type,
	})
}

// HandleDetail handles GET /items/{id} — view a single item.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("item ID is required"))
		return
	}

	it, err := ops.Fetch(h.db, ops.FetchInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	frozen, cachedAt := h.ic.Status(id)

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   displayName(it.Title, it.ID),
			Version: h.renderer.version,
			Nav:     "items",
		},
		Item:         it,
		RenderedHTML: renderMarkdown(it.Body),
		Frozen:       frozen,
		CachedAt:     cachedAt,
		DisplayName:  displayName(it.Title, it.ID),
	})
}

// HandleEdit handles GET /items/{id}/edit — render the edit form.
// The freeze toggle appears only for supported types, reflects the stored
// flag, and ships with a token plus the current modified pair as hidden
// fields (the pass-through values a frozen first save preserves).
func (h *Handlers) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("item ID is required"))
		return
	}

	it, err := ops.Fetch(h.db, ops.FetchInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	frozen, _ := h.ic.Status(id)

	h.renderer.renderPage(w, r, "edit", EditPageData{
		PageData: PageData{
			Title:   "Edit " + displayName(it.Title, it.ID),
			Version: h.renderer.version,
			Nav:     "items",
		},
		Item:        it,
		Frozen:      frozen,
		Supported:   h.ic.SupportsType(it.Type),
		NonceField:  h.nonce.Field(freeze.NonceAction(id), freeze.FormFieldNonce),
		FlagField:   freeze.FormFieldFlag,
		DisplayName: displayName(it.Title, it.ID),
		Tags:        strings.Join(it.Tags, ", "),
	})
}

// HandleEditSave handles POST /items/{id}/edit — the interactive save path.
// The host save runs first (pre-persist interceptors see the raw form), then
// the freeze flag sync, mirroring the host's persist-then-side-effects order.
func (h *Handlers) HandleEditSave(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("item ID is required"))
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	form := r.PostForm

	title := form.Get("title")
	body := form.Get("body")
	status := form.Get("status")
	tags := parseTags(form.Get("tags"))

	input := ops.UpdateInput{
		ID:    id,
		Title: &title,
		Body:  &body,
		Tags:  &tags,
		Form:  form,
	}
	if status != "" {
		input.Status = &status
	}

	if _, err := ops.Update(h.db, h.cfg, h.hooks, input); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.ic.InteractiveSave(localUser, id, form)

	http.Redirect(w, r, "/items/"+id, http.StatusFound)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// displayName returns the item title if present, or a truncated ID.
func displayName(title *string, id string) string {
	if title != nil && *title != "" {
		return *title
	}
	if len(id) > 10 {
		return id[:10] + "..."
	}
	return id
}
