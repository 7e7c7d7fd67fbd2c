package duck

import (
	"database/sql"

	"github.com/pkg/errors"
)

// KV is a key-value view of the store, usable as a history backend.
type KV struct {
	db *sql.DB
}

// KV returns the store's key-value table.
func (dk *Duck) KV() KV {
	return KV{db: dk.db}
}

func (kv KV) Get(key string) (value string, ok bool, err error) {

	err = kv.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to get %s", key)
		return
	}
	return value, true, nil
}

func (kv KV) Set(key, value string) (err error) {

	_, err = kv.db.Exec("INSERT OR REPLACE INTO kv VALUES (?, ?)", key, value)
	err = errors.Wrapf(err, "failed to set %s", key)
	return
}

func (kv KV) Remove(key string) (err error) {

	_, err = kv.db.Exec("DELETE FROM kv WHERE key = ?", key)
	err = errors.Wrapf(err, "failed to remove %s", key)
	return
}
