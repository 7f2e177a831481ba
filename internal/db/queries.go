package db

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/hpungsan/modlock/internal/errors"
	"github.com/hpungsan/modlock/internal/item"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.ModlockError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// InsertItem stores a new item in the database.
func InsertItem(db *sql.DB, it *item.Item) error {
	// Convert tags to JSON
	var tagsJSON sql.NullString
	if len(it.Tags) > 0 {
		data, err := json.Marshal(it.Tags)
		if err != nil {
			return errors.NewInternal(err)
		}
		tagsJSON = sql.NullString{String: string(data), Valid: true}
	}

	title := toNullString(it.Title)

	query := `
		INSERT INTO items (
			id, item_type, title, body, status, tags_json,
			created_at, modified_at, modified_at_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		it.ID, it.Type, title, it.Body, it.Status, tagsJSON,
		it.CreatedAt, it.ModifiedAt, it.ModifiedAtUTC,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetItemByID retrieves an item by its ULID.
func GetItemByID(db *sql.DB, id string) (*item.Item, error) {
	query := `
		SELECT id, item_type, title, body, status, tags_json,
			created_at, modified_at, modified_at_utc
		FROM items
		WHERE id = ?
	`

	row := db.QueryRow(query, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return it, nil
}

// GetItemType returns the content type of an item without loading the record.
func GetItemType(db *sql.DB, id string) (string, error) {
	var itemType string
	err := db.QueryRow(`SELECT item_type FROM items WHERE id = ?`, id).Scan(&itemType)
	if err == sql.ErrNoRows {
		return "", errors.NewNotFound(id)
	}
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return itemType, nil
}

// UpdateItemByID updates mutable fields of an existing item, including the
// modified timestamp pair exactly as given. The caller decides the timestamps;
// pre-persist interceptors may already have substituted them.
// Does NOT change: id, item_type, created_at.
func UpdateItemByID(db *sql.DB, it *item.Item) error {
	var tagsJSON sql.NullString
	if len(it.Tags) > 0 {
		data, err := json.Marshal(it.Tags)
		if err != nil {
			return errors.NewInternal(err)
		}
		tagsJSON = sql.NullString{String: string(data), Valid: true}
	}

	title := toNullString(it.Title)

	query := `
		UPDATE items
		SET title = ?, body = ?, status = ?, tags_json = ?,
			modified_at = ?, modified_at_utc = ?
		WHERE id = ?
	`

	result, err := db.Exec(query,
		title, it.Body, it.Status, tagsJSON,
		it.ModifiedAt, it.ModifiedAtUTC,
		it.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(it.ID)
	}

	return nil
}

// ListItems returns items of the given type (all types when empty), newest
// modified first.
func ListItems(db *sql.DB, itemType string, limit, offset int) ([]*item.Item, int, error) {
	where := ""
	args := []any{}
	if itemType != "" {
		where = " WHERE item_type = ?"
		args = append(args, itemType)
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM items`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, item_type, title, body, status, tags_json,
			created_at, modified_at, modified_at_utc
		FROM items` + where + `
		ORDER BY modified_at_utc DESC, id DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	items := make([]*item.Item, 0)
	for rows.Next() {
		it, err := scanItemRows(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return items, total, nil
}

// scanItem scans a single row into an Item struct.
func scanItem(row *sql.Row) (*item.Item, error) {
	var (
		it       item.Item
		title    sql.NullString
		tagsJSON sql.NullString
	)

	err := row.Scan(
		&it.ID, &it.Type, &title, &it.Body, &it.Status, &tagsJSON,
		&it.CreatedAt, &it.ModifiedAt, &it.ModifiedAtUTC,
	)
	if err != nil {
		return nil, err
	}

	return finishScan(&it, title, tagsJSON)
}

// scanItemRows scans the current row of a multi-row result into an Item struct.
func scanItemRows(rows *sql.Rows) (*item.Item, error) {
	var (
		it       item.Item
		title    sql.NullString
		tagsJSON sql.NullString
	)

	err := rows.Scan(
		&it.ID, &it.Type, &title, &it.Body, &it.Status, &tagsJSON,
		&it.CreatedAt, &it.ModifiedAt, &it.ModifiedAtUTC,
	)
	if err != nil {
		return nil, err
	}

	return finishScan(&it, title, tagsJSON)
}

// finishScan converts nullable columns onto the struct.
func finishScan(it *item.Item, title, tagsJSON sql.NullString) (*item.Item, error) {
	it.Title = fromNullString(title)

	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &it.Tags); err != nil {
			return nil, err
		}
	}

	return it, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
