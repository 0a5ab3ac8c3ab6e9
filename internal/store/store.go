package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Store is the Postgres data layer for jobs, OTPs, the transaction ledger and
// the kiosk fleet. The workflow engine is the only writer of job status and
// OTP used flags; everything else reads.
type Store struct {
	db *sql.DB
}

func New(connectionString string) (*Store, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
