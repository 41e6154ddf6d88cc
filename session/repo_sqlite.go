package session

import (
	"database/sql"

	"github.com/pkg/errors"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

const (
	tokenKey    = "solace_jwt_token"
	usernameKey = "solace_username"
)

// SQLiteRepository persists the session keys in a small sqlite database so a
// session survives restarts and is visible to every client instance pointed
// at the same file.
type SQLiteRepository struct {
	conn *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the session database at path.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "[NewSQLiteRepository] open")
	}

	if err := conn.Ping(); err != nil {
		return nil, errors.Wrap(err, "[NewSQLiteRepository] ping")
	}

	r := &SQLiteRepository{conn: conn}
	if err := r.migrate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const schema = `CREATE TABLE IF NOT EXISTS session_keys (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := r.conn.Exec(schema); err != nil {
		return errors.Wrap(err, "[SQLiteRepository.migrate] create table")
	}
	return nil
}

func (r *SQLiteRepository) Get() (string, string, error) {
	rows, err := r.conn.Query(`SELECT key, value FROM session_keys WHERE key IN (?, ?)`, tokenKey, usernameKey)
	if err != nil {
		return "", "", errors.Wrap(err, "[SQLiteRepository.Get] query")
	}
	defer func() { _ = rows.Close() }()

	var token, username string
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return "", "", errors.Wrap(err, "[SQLiteRepository.Get] scan")
		}
		switch key {
		case tokenKey:
			token = value
		case usernameKey:
			username = value
		}
	}
	if err := rows.Err(); err != nil {
		return "", "", errors.Wrap(err, "[SQLiteRepository.Get] rows")
	}
	return token, username, nil
}

func (r *SQLiteRepository) Set(token, username string) error {
	tx, err := r.conn.Begin()
	if err != nil {
		return errors.Wrap(err, "[SQLiteRepository.Set] begin")
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `INSERT INTO session_keys (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.Exec(upsert, tokenKey, token); err != nil {
		return errors.Wrap(err, "[SQLiteRepository.Set] token")
	}
	if _, err := tx.Exec(upsert, usernameKey, username); err != nil {
		return errors.Wrap(err, "[SQLiteRepository.Set] username")
	}
	return errors.Wrap(tx.Commit(), "[SQLiteRepository.Set] commit")
}

func (r *SQLiteRepository) Clear() error {
	_, err := r.conn.Exec(`DELETE FROM session_keys WHERE key IN (?, ?)`, tokenKey, usernameKey)
	return errors.Wrap(err, "[SQLiteRepository.Clear] delete")
}

// Close releases the database connection.
func (r *SQLiteRepository) Close() error {
	return r.conn.Close()
}

var _ Repository = (*SQLiteRepository)(nil)
