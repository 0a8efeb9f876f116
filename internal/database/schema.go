package database

import (
	"context"
	"database/sql"
)

// schema.go declares the persisted layout of the inventory: users and their
// refresh tokens, the freezer→rack→box containment hierarchy, samples and
// the sample_history audit trail.  Statements are idempotent so Migrate can
// run on every startup.
//
// Containment uses composite keys: a rack id is unique per freezer and a box
// id is unique per (rack, freezer).  Deletes cascade downward through the
// hierarchy.  Exclusive well occupancy is enforced by the unique index on
// (freezer_name, rack_id, box_id, well) so that two concurrent inserts into
// the same well cannot both commit.
//
// "rows" is a reserved word in Postgres and must stay quoted in every query.
//
// sample_history.sample_id carries no foreign key on purpose: the audit
// trail of a directly deleted sample must survive the delete, while
// hierarchy deletes clean their descendants' history inside the same
// transaction (see repository.FreezerRepo and friends).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		salt          TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin','user','readonly')),
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_login    TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         SERIAL PRIMARY KEY,
		user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		revoked_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_hash ON refresh_tokens (token_hash)`,
	`CREATE TABLE IF NOT EXISTS freezers (
		name TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS racks (
		id           TEXT NOT NULL,
		freezer_name TEXT NOT NULL REFERENCES freezers(name) ON DELETE CASCADE,
		"rows"       INTEGER NOT NULL,
		columns      INTEGER NOT NULL,
		PRIMARY KEY (id, freezer_name)
	)`,
	`CREATE TABLE IF NOT EXISTS boxes (
		id            TEXT NOT NULL,
		rack_id       TEXT NOT NULL,
		freezer_name  TEXT NOT NULL,
		box_name      TEXT NOT NULL DEFAULT '',
		assigned_user TEXT NOT NULL DEFAULT '',
		"rows"        INTEGER NOT NULL,
		columns       INTEGER NOT NULL,
		PRIMARY KEY (id, rack_id, freezer_name),
		FOREIGN KEY (rack_id, freezer_name) REFERENCES racks (id, freezer_name) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS samples (
		id           SERIAL PRIMARY KEY,
		sample_name  TEXT NOT NULL,
		sample_type  TEXT NOT NULL DEFAULT '',
		well         TEXT NOT NULL,
		owner        TEXT NOT NULL DEFAULT '',
		date_added   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		notes        TEXT NOT NULL DEFAULT '',
		species      TEXT NOT NULL DEFAULT '',
		resistance   TEXT NOT NULL DEFAULT '',
		regulation   TEXT NOT NULL DEFAULT '',
		box_id       TEXT NOT NULL,
		rack_id      TEXT NOT NULL,
		freezer_name TEXT NOT NULL,
		FOREIGN KEY (box_id, rack_id, freezer_name) REFERENCES boxes (id, rack_id, freezer_name) ON DELETE CASCADE
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_samples_well ON samples (freezer_name, rack_id, box_id, well)`,
	`CREATE TABLE IF NOT EXISTS sample_history (
		id          SERIAL PRIMARY KEY,
		sample_id   INTEGER,
		action      TEXT NOT NULL,
		field       TEXT,
		old_value   TEXT,
		new_value   TEXT,
		user_id     INTEGER NOT NULL DEFAULT 0,
		username    TEXT NOT NULL DEFAULT 'system',
		timestamp   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		freezer     TEXT NOT NULL DEFAULT '',
		rack        TEXT NOT NULL DEFAULT '',
		box         TEXT NOT NULL DEFAULT '',
		well        TEXT NOT NULL DEFAULT '',
		sample_name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sample_history_sample ON sample_history (sample_id, timestamp, id)`,
}

// Migrate applies the schema statements in order.  It should run on the
// privileged connection since Supabase restricts DDL for the anon tier.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
