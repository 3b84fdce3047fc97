// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testutil provides database and HTTP helpers shared by handler tests.
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/ranked-pick/auth"
	"github.com/danielhkuo/ranked-pick/cliparse"
	"github.com/danielhkuo/ranked-pick/db"
	"github.com/danielhkuo/ranked-pick/models"
)

// SetupTestDB opens a fresh in-memory SQLite database with the full schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: db.TypeSQLite,
		AdminKeySalt: "test-admin-salt",
	}
}

// CreateTestCycle creates a cycle in the given phase and returns its ID and admin key
func CreateTestCycle(t *testing.T, conn *sql.DB, cfg cliparse.Config, phase string, seats int) (cycleID, adminKey string) {
	t.Helper()

	cycleID, _ = auth.GenerateID(16)
	adminKey = auth.GenerateAdminKey(cycleID, cfg.AdminKeySalt)

	_, err := conn.Exec(`
		INSERT INTO cycle (id, title, seats, phase, created_at)
		VALUES ($1, 'Test Cycle', $2, $3, $4)
	`, cycleID, seats, phase, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test cycle: %v", err)
	}

	return cycleID, adminKey
}

// AddTestCandidate adds a confirmed candidate to a cycle and returns its ID
func AddTestCandidate(t *testing.T, conn *sql.DB, cycleID, name string) string {
	t.Helper()

	candidateID, _ := auth.GenerateID(12)
	_, err := conn.Exec(`
		INSERT INTO candidate (id, cycle_id, name, status, position, updated_at)
		VALUES ($1, $2, $3, $4, (SELECT COUNT(*) FROM candidate WHERE cycle_id = $2), $5)
	`, candidateID, cycleID, name, models.StatusConfirmed, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// CreateTestVoter registers a voter for a cycle and returns the voter token
func CreateTestVoter(t *testing.T, conn *sql.DB, cycleID, name string) string {
	t.Helper()

	voterToken, _ := auth.GenerateVoterToken()
	_, err := conn.Exec(`
		INSERT INTO voter (cycle_id, name, voter_token, created_at)
		VALUES ($1, $2, $3, $4)
	`, cycleID, name, voterToken, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return voterToken
}

// SubmitTestBallot stores a ranking for a voter and returns the ballot ID.
// Ballots are spaced a millisecond apart so submission order is stable.
func SubmitTestBallot(t *testing.T, conn *sql.DB, cycleID, voterToken string, ranking []string) string {
	t.Helper()

	if ranking == nil {
		ranking = []string{}
	}
	rankingJSON, err := json.Marshal(ranking)
	if err != nil {
		t.Fatalf("Failed to encode ranking: %v", err)
	}

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM ballot WHERE cycle_id = $1`, cycleID).Scan(&n); err != nil {
		t.Fatalf("Failed to count ballots: %v", err)
	}

	ballotID, _ := auth.GenerateID(16)
	submittedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Millisecond)
	_, err = conn.Exec(`
		INSERT INTO ballot (id, cycle_id, voter_token, ranking, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ballotID, cycleID, voterToken, string(rankingJSON), submittedAt)
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	return ballotID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
