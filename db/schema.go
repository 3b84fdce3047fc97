// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema sticks to types both SQLite and PostgreSQL accept.
// Rankings and result payloads are JSON stored as TEXT.
const schema = `
-- Election cycles
CREATE TABLE IF NOT EXISTS cycle (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    seats INTEGER NOT NULL CHECK (seats >= 1),
    phase TEXT NOT NULL DEFAULT 'start' CHECK (phase IN ('start', 'nomination', 'confirmation', 'finalization', 'voting', 'announcement')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_cycle_phase ON cycle(phase);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    cycle_id TEXT NOT NULL REFERENCES cycle(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'confirmed' CHECK (status IN ('confirmed', 'dropped')),
    position INTEGER NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (cycle_id, name)
);

CREATE INDEX IF NOT EXISTS idx_candidate_cycle_id ON candidate(cycle_id);

-- Voter registrations
CREATE TABLE IF NOT EXISTS voter (
    cycle_id TEXT NOT NULL REFERENCES cycle(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    voter_token TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (cycle_id, voter_token),
    UNIQUE (cycle_id, name)
);

-- Ballots
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    cycle_id TEXT NOT NULL REFERENCES cycle(id) ON DELETE CASCADE,
    voter_token TEXT NOT NULL,
    ranking TEXT NOT NULL,
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (cycle_id, voter_token)
);

CREATE INDEX IF NOT EXISTS idx_ballot_cycle_id ON ballot(cycle_id);

-- Result Snapshots (one per cycle, replaced on recount)
CREATE TABLE IF NOT EXISTS result_snapshot (
    id TEXT PRIMARY KEY,
    cycle_id TEXT NOT NULL UNIQUE REFERENCES cycle(id) ON DELETE CASCADE,
    method TEXT NOT NULL,
    computed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    payload TEXT NOT NULL
);
`
