package ops

import (
	"database/sql"

	"github.com/hpungsan/modlock/internal/db"
	"github.com/hpungsan/modlock/internal/errors"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID string

	// IncludeBody controls whether the body is returned (default true).
	IncludeBody *bool
}

// FetchOutput contains a fetched item.
type FetchOutput struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	Title         *string           `json:"title,omitempty"`
	Body          string            `json:"body,omitempty"`
	Status        string            `json:"status"`
	Tags          []string          `json:"tags,omitempty"`
	CreatedAt     string            `json:"created_at"`
	ModifiedAt    string            `json:"modified_at"`
	ModifiedAtUTC string            `json:"modified_at_utc"`
	Meta          map[string]string `json:"meta,omitempty"`
}

// Fetch retrieves an item by ID. Meta is left to the caller (the API surface
// filters it through the field registry before exposing it).
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	it, err := db.GetItemByID(database, input.ID)
	if err != nil {
		return nil, err
	}

	out := &FetchOutput{
		ID:            it.ID,
		Type:          it.Type,
		Title:         it.Title,
		Body:          it.Body,
		Status:        it.Status,
		Tags:          it.Tags,
		CreatedAt:     it.CreatedAt,
		ModifiedAt:    it.ModifiedAt,
		ModifiedAtUTC: it.ModifiedAtUTC,
	}

	if input.IncludeBody != nil && !*input.IncludeBody {
		out.Body = ""
	}

	return out, nil
}
