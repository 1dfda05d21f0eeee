package db

import (
	"context"
	"fmt"
)

// schema creates the tables if they are missing and seeds the default jokes
// into an empty jokes table. Every statement is safe to re-run.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id       BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS jokes (
		joke_id    BIGSERIAL PRIMARY KEY,
		content    TEXT NOT NULL CHECK (content <> ''),
		category   TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS jokes_category_idx ON jokes (category)`,
	`INSERT INTO jokes (content)
	SELECT seed.content
	FROM (VALUES
		('Por que o Chuck Norris não usa relógio? Porque ele decide que horas são.'),
		('Chuck Norris pode dividir por zero.'),
		('Quando Chuck Norris faz flexões, ele não está levantando seu corpo, está empurrando a Terra para baixo.')
	) AS seed(content)
	WHERE NOT EXISTS (SELECT 1 FROM jokes)`,
}

// Bootstrap applies the schema. It is not a migration system: tables are
// only ever created, never altered.
func (p *Postgres) Bootstrap(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap statement %d: %w", i+1, err)
		}
	}
	p.log.Info("database schema ready")
	return nil
}
