// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates its schema.

# Connecting

Open accepts the database type from configuration ("sqlite" or "postgres")
and a connection string:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

SQLite is served by modernc.org/sqlite (pure Go, no cgo) and is limited to a
single open connection so in-memory databases stay shared. PostgreSQL is
served by github.com/lib/pq.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - cycle: Election metadata, seat count and phase
  - candidate: Nominees per cycle, confirmed or dropped
  - voter: Maps voter names to voter tokens
  - ballot: One ranking per voter per cycle
  - result_snapshot: Latest STV result per cycle

# Relationships

	cycle 1──* candidate
	cycle 1──* voter
	cycle 1──* ballot
	cycle 1──1 result_snapshot

All foreign keys use ON DELETE CASCADE.
*/
package db
