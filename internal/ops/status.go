package ops

import (
	"database/sql"

	"github.com/hpungsan/modlock/internal/db"
	"github.com/hpungsan/modlock/internal/errors"
	"github.com/hpungsan/modlock/internal/freeze"
)

// StatusInput contains parameters for the FreezeStatus operation.
type StatusInput struct {
	ID string
}

// StatusOutput reports an item's freeze state.
type StatusOutput struct {
	ID            string `json:"id"`
	Frozen        bool   `json:"frozen"`
	CachedAt      string `json:"cached_at,omitempty"`
	ModifiedAt    string `json:"modified_at"`
	ModifiedAtUTC string `json:"modified_at_utc"`
}

// FreezeStatus reports the stored flag, the cached timestamp, and the item's
// current modified pair.
func FreezeStatus(database *sql.DB, input StatusInput) (*StatusOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	it, err := db.GetItemByID(database, input.ID)
	if err != nil {
		return nil, err
	}

	store := db.Store{DB: database}
	flag, err := store.GetMeta(it.ID, freeze.MetaKeyFlag)
	if err != nil {
		return nil, err
	}
	cached, err := store.GetMeta(it.ID, freeze.MetaKeyCache)
	if err != nil {
		return nil, err
	}

	return &StatusOutput{
		ID:            it.ID,
		Frozen:        flag == "1",
		CachedAt:      cached,
		ModifiedAt:    it.ModifiedAt,
		ModifiedAtUTC: it.ModifiedAtUTC,
	}, nil
}

// SetFreeze sets or clears the freeze flag programmatically, the same way the
// structured API surface does via its meta bag. Clearing deletes the flag
// rather than writing "0".
func SetFreeze(database *sql.DB, id string, frozen bool) (*StatusOutput, error) {
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	// Verify the item exists before touching meta.
	if _, err := db.GetItemByID(database, id); err != nil {
		return nil, err
	}

	store := db.Store{DB: database}
	if frozen {
		if err := store.SetMeta(id, freeze.MetaKeyFlag, "1"); err != nil {
			return nil, err
		}
	} else {
		if err := store.DeleteMeta(id, freeze.MetaKeyFlag); err != nil {
			return nil, err
		}
	}

	return FreezeStatus(database, StatusInput{ID: id})
}
