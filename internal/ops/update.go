package ops

import (
	"database/sql"
	"net/url"
	"time"

	"github.com/hpungsan/modlock/internal/config"
	"github.com/hpungsan/modlock/internal/db"
	"github.com/hpungsan/modlock/internal/errors"
	"github.com/hpungsan/modlock/internal/hook"
	"github.com/hpungsan/modlock/internal/item"
)

// UpdateInput contains parameters for the Update operation.
type UpdateInput struct {
	ID string

	// Editable fields (nil = don't change)
	Title  *string
	Body   *string
	Status *string
	Tags   *[]string

	// Form is the raw interactive submission; nil on non-form surfaces.
	// Passed through to pre-persist interceptors.
	Form url.Values

	// Meta is the structured request's metadata bag; nil outside the API
	// surface. Pre-insert interceptors run against it before the timestamp
	// interceptors, so meta they persist is visible to the pre-persist step.
	Meta map[string]string
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	ID            string `json:"id"`
	ModifiedAt    string `json:"modified_at"`
	ModifiedAtUTC string `json:"modified_at_utc"`
}

// Update modifies an existing item. This is the host save path: it stamps the
// new modification timestamps, runs the registered interceptors (which may
// substitute them), and commits whatever they return.
func Update(database *sql.DB, cfg *config.Config, hooks *hook.Registry, input UpdateInput) (*UpdateOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if input.Title == nil && input.Body == nil && input.Status == nil && input.Tags == nil && input.Meta == nil {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}

	it, err := db.GetItemByID(database, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		it.Title = cleanOptionalString(input.Title)
	}
	if input.Body != nil {
		it.Body = *input.Body
	}
	if input.Status != nil {
		if *input.Status != item.StatusDraft && *input.Status != item.StatusPublished {
			return nil, errors.NewInvalidRequest("status must be one of: draft, published")
		}
		it.Status = *input.Status
	}
	if input.Tags != nil {
		it.Tags = *input.Tags
	}

	// Host default: every save refreshes the modified pair.
	it.ModifiedAt, it.ModifiedAtUTC = item.StampPair(time.Now(), cfg.Location())

	if hooks != nil {
		if input.Meta != nil {
			it = hooks.ApplyPreInsert(it.Type, it, input.Meta)
		}
		it = hooks.ApplyPrePersist(it, it.ID, input.Form)
	}

	if err := db.UpdateItemByID(database, it); err != nil {
		return nil, err
	}

	// Generic meta-save step: whatever the interceptors left in the bag.
	for k, v := range input.Meta {
		if err := db.SetMeta(database, it.ID, k, v); err != nil {
			return nil, err
		}
	}

	return &UpdateOutput{
		ID:            it.ID,
		ModifiedAt:    it.ModifiedAt,
		ModifiedAtUTC: it.ModifiedAtUTC,
	}, nil
}
