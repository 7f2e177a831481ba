package db

import (
	"database/sql"

	"github.com/hpungsan/modlock/internal/errors"
)

// GetMeta returns the meta value for (itemID, key), or ("", nil) when absent.
// An absent key is a normal state for every caller, never an error.
func GetMeta(db *sql.DB, itemID, key string) (string, error) {
	var value string
	err := db.QueryRow(
		`SELECT meta_value FROM item_meta WHERE item_id = ? AND meta_key = ?`,
		itemID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return value, nil
}

// SetMeta writes the meta value for (itemID, key), replacing any prior value.
func SetMeta(db *sql.DB, itemID, key, value string) error {
	_, err := db.Exec(
		`INSERT INTO item_meta (item_id, meta_key, meta_value) VALUES (?, ?, ?)
		 ON CONFLICT(item_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value`,
		itemID, key, value,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// DeleteMeta removes the meta key for the item. Deleting an absent key is a no-op.
func DeleteMeta(db *sql.DB, itemID, key string) error {
	_, err := db.Exec(
		`DELETE FROM item_meta WHERE item_id = ? AND meta_key = ?`,
		itemID, key,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetAllMeta returns every meta key/value pair for an item.
func GetAllMeta(db *sql.DB, itemID string) (map[string]string, error) {
	rows, err := db.Query(
		`SELECT meta_key, meta_value FROM item_meta WHERE item_id = ?`,
		itemID,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, errors.NewInternal(err)
		}
		meta[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return meta, nil
}

// Store adapts a *sql.DB to the collaborator interfaces the freeze
// interceptor consumes (meta store and type resolver).
type Store struct {
	DB *sql.DB
}

// GetMeta implements freeze.MetaStore.
func (s Store) GetMeta(itemID, key string) (string, error) {
	return GetMeta(s.DB, itemID, key)
}

// SetMeta implements freeze.MetaStore.
func (s Store) SetMeta(itemID, key, value string) error {
	return SetMeta(s.DB, itemID, key, value)
}

// DeleteMeta implements freeze.MetaStore.
func (s Store) DeleteMeta(itemID, key string) error {
	return DeleteMeta(s.DB, itemID, key)
}

// ItemType implements freeze.TypeResolver.
func (s Store) ItemType(itemID string) (string, error) {
	return GetItemType(s.DB, itemID)
}
