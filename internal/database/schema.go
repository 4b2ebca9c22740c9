package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

type schemaStep struct {
	name  string
	query string
}

var schemaSteps = []schemaStep{
	{
		name: "users table",
		query: `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		username VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	},
	{
		name: "posts table",
		query: `
	CREATE TABLE IF NOT EXISTS posts (
		id UUID PRIMARY KEY,
		title VARCHAR(200) NOT NULL CHECK (title <> ''),
		content TEXT NOT NULL CHECK (content <> ''),
		author_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		category VARCHAR(64) NOT NULL DEFAULT '',
		slug VARCHAR(120) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	},
	{name: "posts slug index", query: `CREATE UNIQUE INDEX IF NOT EXISTS posts_slug_unique ON posts(slug)`},
	{name: "posts created index", query: `CREATE INDEX IF NOT EXISTS posts_created_idx ON posts(created_at, id)`},
	{name: "posts category index", query: `CREATE INDEX IF NOT EXISTS posts_category_created_idx ON posts(category, created_at, id)`},
	{name: "posts author index", query: `CREATE INDEX IF NOT EXISTS posts_author_idx ON posts(author_id)`},
}

// EnsureSchema creates all required tables and indexes. Every statement is
// idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, step := range schemaSteps {
		if _, err := db.ExecContext(ctx, step.query); err != nil {
			return errors.Wrapf(err, "create %s", step.name)
		}
	}
	return nil
}
