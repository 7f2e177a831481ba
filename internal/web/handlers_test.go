package web

import (
	"database/sql"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/hpungsan/modlock/internal/config"
	"github.com/hpungsan/modlock/internal/db"
	"github.com/hpungsan/modlock/internal/freeze"
	"github.com/hpungsan/modlock/internal/ops"
)

// testServer wires the handlers onto a mux the way NewServer does, against a
// temp database.
func testServer(t *testing.T) (*sql.DB, *Handlers, *http.ServeMux) {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	cfg.NonceSecret = "test-secret"

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatalf("template sub-FS failed: %v", err)
	}
	renderer := NewRenderer(templateSub, "test")
	h := NewHandlers(database, cfg, renderer, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /items", h.HandleList)
	mux.HandleFunc("GET /items/{id}", h.HandleDetail)
	mux.HandleFunc("GET /items/{id}/edit", h.HandleEdit)
	mux.HandleFunc("POST /items/{id}/edit", h.HandleEditSave)

	return database, h, mux
}

// seedItem creates an item through the ops layer and returns its ID.
func seedItem(t *testing.T, database *sql.DB, body string) string {
	t.Helper()

	title := "Seed"
	output, err := ops.Create(database, config.DefaultConfig(), nil, ops.CreateInput{
		Title: &title,
		Body:  body,
	})
	if err != nil {
		t.Fatalf("seed Create failed: %v", err)
	}
	return output.ID
}

func TestHandleList(t *testing.T) {
	database, _, mux := testServer(t)
	seedItem(t, database, "hello")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/items", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Seed") {
		t.Error("listing does not show the seeded item")
	}
}

func TestHandleDetail(t *testing.T) {
	database, _, mux := testServer(t)
	id := seedItem(t, database, "# Heading\n\nbody text")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/items/"+id, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<h1") {
		t.Error("markdown body not rendered")
	}
}

func TestHandleDetail_NotFound(t *testing.T) {
	_, _, mux := testServer(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/items/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleDetail_NotFoundJSON(t *testing.T) {
	_, _, mux := testServer(t)

	req := httptest.NewRequest("GET", "/items/missing", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("Content-Type = %q, want JSON", ct)
	}
}

func TestHandleEdit_ShowsFreezeToggleForSupportedType(t *testing.T) {
	database, _, mux := testServer(t)
	id := seedItem(t, database, "hello")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/items/"+id+"/edit", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="freeze_modified"`) {
		t.Error("freeze toggle missing from edit form")
	}
	if !strings.Contains(body, `name="freeze_modified_nonce"`) {
		t.Error("nonce field missing from edit form")
	}
	if !strings.Contains(body, `name="modified_at"`) || !strings.Contains(body, `name="modified_at_utc"`) {
		t.Error("hidden modified pair missing from edit form")
	}
}

func TestHandleEditSave_SetsFreezeFlag(t *testing.T) {
	database, h, mux := testServer(t)
	id := seedItem(t, database, "hello")

	form := url.Values{}
	form.Set("title", "Seed")
	form.Set("body", "edited")
	form.Set("status", "draft")
	form.Set(freeze.FormFieldFlag, "1")
	form.Set(freeze.FormFieldNonce, h.nonce.Token(freeze.NonceAction(id)))

	req := httptest.NewRequest("POST", "/items/"+id+"/edit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}

	status, err := ops.FreezeStatus(database, ops.StatusInput{ID: id})
	if err != nil {
		t.Fatalf("FreezeStatus failed: %v", err)
	}
	if !status.Frozen {
		t.Error("flag not set after form save")
	}

	fetched, err := ops.Fetch(database, ops.FetchInput{ID: id})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Body != "edited" {
		t.Errorf("Body = %q, want edited", fetched.Body)
	}
}

func TestHandleEditSave_UncheckedBoxClearsFlag(t *testing.T) {
	database, h, mux := testServer(t)
	id := seedItem(t, database, "hello")

	if _, err := ops.SetFreeze(database, id, true); err != nil {
		t.Fatalf("SetFreeze failed: %v", err)
	}

	// Unchecked checkbox means the field is absent from the submission.
	form := url.Values{}
	form.Set("title", "Seed")
	form.Set("body", "edited")
	form.Set("status", "draft")
	form.Set(freeze.FormFieldNonce, h.nonce.Token(freeze.NonceAction(id)))

	req := httptest.NewRequest("POST", "/items/"+id+"/edit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}

	status, err := ops.FreezeStatus(database, ops.StatusInput{ID: id})
	if err != nil {
		t.Fatalf("FreezeStatus failed: %v", err)
	}
	if status.Frozen {
		t.Error("flag still set after save with checkbox unchecked")
	}
}

func TestHandleEditSave_BadNonceLeavesFlagAlone(t *testing.T) {
	database, _, mux := testServer(t)
	id := seedItem(t, database, "hello")

	if _, err := ops.SetFreeze(database, id, true); err != nil {
		t.Fatalf("SetFreeze failed: %v", err)
	}

	form := url.Values{}
	form.Set("title", "Seed")
	form.Set("body", "edited")
	form.Set("status", "draft")
	form.Set(freeze.FormFieldNonce, "forged")

	req := httptest.NewRequest("POST", "/items/"+id+"/edit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	// The content save itself still goes through; only the flag sync is gated.
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}

	status, err := ops.FreezeStatus(database, ops.StatusInput{ID: id})
	if err != nil {
		t.Fatalf("FreezeStatus failed: %v", err)
	}
	if !status.Frozen {
		t.Error("flag cleared despite invalid token")
	}
}

func TestHandleEditSave_FrozenHoldsTimestamp(t *testing.T) {
	database, h, mux := testServer(t)
	id := seedItem(t, database, "hello")

	if _, err := ops.SetFreeze(database, id, true); err != nil {
		t.Fatalf("SetFreeze failed: %v", err)
	}
	if err := db.SetMeta(database, id, freeze.MetaKeyCache, "2026-02-01T08:00:00Z"); err != nil {
		t.Fatalf("SetMeta failed: %v", err)
	}

	form := url.Values{}
	form.Set("title", "Seed")
	form.Set("body", "edited while frozen")
	form.Set("status", "draft")
	form.Set(freeze.FormFieldFlag, "1")
	form.Set(freeze.FormFieldNonce, h.nonce.Token(freeze.NonceAction(id)))

	req := httptest.NewRequest("POST", "/items/"+id+"/edit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}

	fetched, err := ops.Fetch(database, ops.FetchInput{ID: id})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Body != "edited while frozen" {
		t.Errorf("Body = %q, want the edited content", fetched.Body)
	}
	if fetched.ModifiedAt != "2026-02-01 08:00:00" {
		t.Errorf("ModifiedAt = %q, want held cached timestamp", fetched.ModifiedAt)
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := securityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("X-Frame-Options missing")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy missing")
	}
}
