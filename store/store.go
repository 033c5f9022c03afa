// Package store wraps all Postgres access. Queries return nil (not an error)
// on a missing row so callers decide between 404 and silent skip.
package store

import (
	"database/sql"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}
