package settings

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore keeps settings as key/value rows
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres opens a pool, verifies it and ensures the settings table exists
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, &Error{Message: "failed to connect to database", Cause: err}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &Error{Message: "failed to ping database", Cause: err}
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, &Error{Message: "failed to create settings table", Cause: err}
	}
	return &PostgresStore{pool: pool}, nil
}

// Load reads both keys; missing rows leave the field empty
func (p *PostgresStore) Load(ctx context.Context) (Settings, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT key, value FROM settings WHERE key = ANY($1)`,
		[]string{KeyAPIKey, KeyAPIBaseURL},
	)
	if err != nil {
		return Settings{}, &Error{Message: "failed to load settings", Cause: err}
	}
	defer rows.Close()

	var s Settings
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, &Error{Message: "failed to scan settings", Cause: err}
		}
		switch key {
		case KeyAPIKey:
			s.APIKey = value
		case KeyAPIBaseURL:
			s.APIBaseURL = value
		}
	}
	if err := rows.Err(); err != nil {
		return Settings{}, &Error{Message: "failed to load settings", Cause: err}
	}
	return s, nil
}

// Save upserts both keys in one transaction
func (p *PostgresStore) Save(ctx context.Context, s Settings) error {
	s = s.Normalized()
	if err := s.Validate(); err != nil {
		return err
	}

	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		for key, value := range map[string]string{KeyAPIKey: s.APIKey, KeyAPIBaseURL: s.APIBaseURL} {
			if _, err := tx.Exec(ctx,
				`INSERT INTO settings (key, value) VALUES ($1, $2)
				 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
				key, value,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &Error{Message: "failed to save settings", Cause: err}
	}
	return nil
}

// Close closes the connection pool
func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
