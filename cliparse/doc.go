// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file/DSN or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - AdminKeySalt: Secret for admin key HMAC (required)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-env          Path to a .env file
	-admin-salt   Admin key salt

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	ADMIN_KEY_SALT → -admin-salt

CLI flags take precedence over environment variables. Variables from a .env
file (loaded with github.com/joho/godotenv) fill in only what the environment
does not already set.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - ADMIN_KEY_SALT must be provided
  - DATABASE_TYPE must be sqlite or postgres
*/
package cliparse
