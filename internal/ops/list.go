package ops

import (
	"database/sql"

	"github.com/hpungsan/modlock/internal/db"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Type   string // empty = all types
	Limit  int
	Offset int
}

// SummaryItem is one row in a listing.
type SummaryItem struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"`
	Title         *string `json:"title,omitempty"`
	Status        string  `json:"status"`
	ModifiedAt    string  `json:"modified_at"`
	ModifiedAtUTC string  `json:"modified_at_utc"`
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []SummaryItem `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// List returns items newest-modified first, optionally filtered by type.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	limit := clampLimit(input.Limit)
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	items, total, err := db.ListItems(database, input.Type, limit, offset)
	if err != nil {
		return nil, err
	}

	summaries := make([]SummaryItem, 0, len(items))
	for _, it := range items {
		summaries = append(summaries, SummaryItem{
			ID:            it.ID,
			Type:          it.Type,
			Title:         it.Title,
			Status:        it.Status,
			ModifiedAt:    it.ModifiedAt,
			ModifiedAtUTC: it.ModifiedAtUTC,
		})
	}

	return &ListOutput{
		Items: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(summaries) < total,
			Total:   total,
		},
	}, nil
}
