package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
)

// Schema is the canonical DDL. Statements are individually idempotent
// (IF NOT EXISTS) but ApplySchema additionally tolerates "already exists"
// errors so re-running against an older database upgrades in place.
const Schema = `
CREATE TABLE IF NOT EXISTS regions (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS districts (
	id          BIGSERIAL PRIMARY KEY,
	region_id   BIGINT NOT NULL REFERENCES regions(id) ON DELETE CASCADE,
	name        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT UNIQUE NOT NULL,
	description TEXT
);

CREATE TABLE IF NOT EXISTS accounts (
	id             BIGSERIAL PRIMARY KEY,
	email          TEXT UNIQUE NOT NULL,
	name           TEXT,
	phone          TEXT,
	role           TEXT NOT NULL CHECK (role IN ('UserAdmin','CSR','PIN','PlatformManager')),
	status         TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','inactive','blocked')),
	affiliation_id BIGINT
);

CREATE TABLE IF NOT EXISTS requests (
	id           BIGSERIAL PRIMARY KEY,
	requester_id BIGINT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	responder_id BIGINT REFERENCES accounts(id) ON DELETE SET NULL,
	category_id  BIGINT NOT NULL REFERENCES categories(id),
	district_id  BIGINT NOT NULL REFERENCES districts(id),
	title        TEXT NOT NULL,
	description  TEXT,
	status       TEXT NOT NULL CHECK (status IN ('pending','accepted','completed','expired')),
	start_at     TIMESTAMPTZ,
	end_at       TIMESTAMPTZ,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	volunteers   TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_requests_status ON requests(status);
CREATE INDEX IF NOT EXISTS idx_requests_created_at ON requests(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_requests_category ON requests(category_id);
CREATE INDEX IF NOT EXISTS idx_requests_district ON requests(district_id);
CREATE INDEX IF NOT EXISTS idx_districts_region ON districts(region_id);
`

// ApplySchema executes the DDL statement by statement, skipping statements
// whose object already exists. Anything else fails the whole apply.
func ApplySchema(db *sql.DB, schema string) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			if isAlreadyExists(err) {
				continue
			}
			return err
		}
	}
	return nil
}

func isAlreadyExists(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "42P07", "42710", "42701", "42P06": // duplicate table/object/column/schema
			return true
		}
	}
	return false
}
