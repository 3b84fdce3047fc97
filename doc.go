// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ranked-pick API server.

ranked-pick runs multi-seat elections: an administrator opens a cycle,
nominates candidates and opens voting; voters rank candidates; the count
uses the Single Transferable Vote with a Droop quota (package stv) and the
stored result is sealed until the cycle reaches its announcement phase.

# Starting the Server

By default the server listens on 3318 and keeps its data in SQLite:

	DATABASE_URL=ranked-pick.db ADMIN_KEY_SALT=... go run .

Or against PostgreSQL with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Settings come from flags, the environment, or a .env file:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): PostgreSQL DSN or SQLite file path (required)
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC (required)

# Architecture

  - stv: the counting engine (ledger, quota, transfers, tie-break, rounds)
  - handlers: HTTP request handlers (cycles, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Token generation and validation
  - db: Connection and schema creation
  - cliparse: Configuration parsing
  - cmd/stvtally: offline count and verification CLI

See package documentation for each component.
*/
package main
