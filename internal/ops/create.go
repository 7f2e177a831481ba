package ops

import (
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/modlock/internal/config"
	"github.com/hpungsan/modlock/internal/db"
	"github.com/hpungsan/modlock/internal/errors"
	"github.com/hpungsan/modlock/internal/hook"
	"github.com/hpungsan/modlock/internal/item"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Type   string // default: "post"
	Title  *string
	Body   string // required
	Status string // default: draft
	Tags   []string

	// Meta is the structured request's metadata bag. Pre-insert interceptors
	// may consume entries from it; the rest is saved by the generic meta step.
	Meta map[string]string
}

// CreateOutput contains the result of the Create operation.
type CreateOutput struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	ModifiedAt    string `json:"modified_at"`
	ModifiedAtUTC string `json:"modified_at_utc"`
}

// Create stores a new item. Registered pre-insert interceptors for the item's
// type run against the meta bag before the generic meta-save step.
func Create(database *sql.DB, cfg *config.Config, hooks *hook.Registry, input CreateInput) (*CreateOutput, error) {
	if strings.TrimSpace(input.Body) == "" {
		return nil, errors.NewInvalidRequest("body is required")
	}

	itemType := strings.TrimSpace(input.Type)
	if itemType == "" {
		itemType = item.DefaultType
	}

	status := input.Status
	if status == "" {
		status = item.StatusDraft
	}
	if status != item.StatusDraft && status != item.StatusPublished {
		return nil, errors.NewInvalidRequest("status must be one of: draft, published")
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	loc := cfg.Location()
	local, utc := item.StampPair(time.Now(), loc)

	it := &item.Item{
		ID:            id,
		Type:          itemType,
		Title:         cleanOptionalString(input.Title),
		Body:          input.Body,
		Status:        status,
		Tags:          input.Tags,
		CreatedAt:     local,
		ModifiedAt:    local,
		ModifiedAtUTC: utc,
	}

	if hooks != nil && input.Meta != nil {
		it = hooks.ApplyPreInsert(it.Type, it, input.Meta)
	}

	if err := db.InsertItem(database, it); err != nil {
		return nil, err
	}

	// Generic meta-save step: whatever the interceptors left in the bag.
	for k, v := range input.Meta {
		if err := db.SetMeta(database, it.ID, k, v); err != nil {
			return nil, err
		}
	}

	return &CreateOutput{
		ID:            it.ID,
		Type:          it.Type,
		ModifiedAt:    it.ModifiedAt,
		ModifiedAtUTC: it.ModifiedAtUTC,
	}, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
