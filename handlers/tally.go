// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/ranked-pick/models"
	"github.com/danielhkuo/ranked-pick/stv"
)

// loadCountInput assembles the engine input for a cycle: its seat count,
// confirmed candidates in nomination order and every submitted ballot
func loadCountInput(db *sql.DB, cycle models.Cycle) (stv.Input, error) {
	candidates, err := getCandidates(db, cycle.ID, true)
	if err != nil {
		return stv.Input{}, fmt.Errorf("failed to get candidates: %w", err)
	}

	ballots, err := getBallots(db, cycle.ID)
	if err != nil {
		return stv.Input{}, fmt.Errorf("failed to get ballots: %w", err)
	}

	in := stv.Input{
		Seats:      cycle.Seats,
		Candidates: make([]stv.CandidateID, len(candidates)),
		Ballots:    make([]stv.Ballot, len(ballots)),
	}
	for i, c := range candidates {
		in.Candidates[i] = stv.CandidateID(c.ID)
	}
	for i, b := range ballots {
		ranking := make([]stv.CandidateID, len(b.Ranking))
		for j, id := range b.Ranking {
			ranking[j] = stv.CandidateID(id)
		}
		in.Ballots[i] = stv.Ballot{Voter: b.ID, Ranking: ranking}
	}

	return in, nil
}

// getBallots retrieves a cycle's ballots in submission order
func getBallots(db *sql.DB, cycleID string) ([]models.Ballot, error) {
	rows, err := db.Query(`
		SELECT id, cycle_id, ranking, submitted_at
		FROM ballot
		WHERE cycle_id = $1
		ORDER BY submitted_at, id
	`, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ballots []models.Ballot
	for rows.Next() {
		var b models.Ballot
		var rankingJSON string
		if err := rows.Scan(&b.ID, &b.CycleID, &rankingJSON, &b.SubmittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(rankingJSON), &b.Ranking); err != nil {
			return nil, fmt.Errorf("ballot %s: %w", b.ID, err)
		}
		ballots = append(ballots, b)
	}

	return ballots, rows.Err()
}

// computeInputsHash digests the counted ballots so a stored snapshot can be
// matched against the ballots it was computed from
func computeInputsHash(in stv.Input) string {
	h := sha256.New()
	fmt.Fprintf(h, "seats=%d\n", in.Seats)
	for _, c := range in.Candidates {
		fmt.Fprintf(h, "c=%s\n", c)
	}
	for _, b := range in.Ballots {
		fmt.Fprintf(h, "b=%s:", b.Voter)
		for _, c := range b.Ranking {
			fmt.Fprintf(h, "%s,", c)
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// snapshotPayload is the JSON stored in result_snapshot.payload
type snapshotPayload struct {
	Seats      int               `json:"seats"`
	Quota      int               `json:"quota"`
	Winners    []stv.CandidateID `json:"winners"`
	Rounds     []stv.Round       `json:"rounds"`
	InputsHash string            `json:"inputs_hash"`
}

// saveSnapshot replaces any stored result for the cycle with res
func saveSnapshot(db *sql.DB, cycleID string, res stv.Result, inputsHash string) (models.ResultSnapshot, error) {
	snapshot := models.ResultSnapshot{
		ID:         uuid.NewString(),
		CycleID:    cycleID,
		Method:     models.MethodSTV,
		ComputedAt: res.ComputedAt,
		Seats:      res.Seats,
		Quota:      res.Quota,
		Winners:    res.Winners,
		Rounds:     res.Rounds,
		InputsHash: inputsHash,
	}

	payload, err := json.Marshal(snapshotPayload{
		Seats:      snapshot.Seats,
		Quota:      snapshot.Quota,
		Winners:    snapshot.Winners,
		Rounds:     snapshot.Rounds,
		InputsHash: snapshot.InputsHash,
	})
	if err != nil {
		return models.ResultSnapshot{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return models.ResultSnapshot{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM result_snapshot WHERE cycle_id = $1`, cycleID); err != nil {
		return models.ResultSnapshot{}, fmt.Errorf("failed to delete previous snapshot: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO result_snapshot (id, cycle_id, method, computed_at, payload)
		VALUES ($1, $2, $3, $4, $5)
	`, snapshot.ID, cycleID, snapshot.Method, snapshot.ComputedAt, string(payload))
	if err != nil {
		return models.ResultSnapshot{}, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.ResultSnapshot{}, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return snapshot, nil
}

// loadSnapshot reads the stored result for a cycle. Returns sql.ErrNoRows
// when the cycle has not been counted.
func loadSnapshot(db *sql.DB, cycleID string) (models.ResultSnapshot, error) {
	var snapshot models.ResultSnapshot
	var payloadJSON string
	err := db.QueryRow(`
		SELECT id, cycle_id, method, computed_at, payload
		FROM result_snapshot
		WHERE cycle_id = $1
	`, cycleID).Scan(
		&snapshot.ID, &snapshot.CycleID, &snapshot.Method,
		&snapshot.ComputedAt, &payloadJSON,
	)
	if err != nil {
		return models.ResultSnapshot{}, err
	}

	var payload snapshotPayload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return models.ResultSnapshot{}, fmt.Errorf("failed to parse snapshot payload: %w", err)
	}

	snapshot.Seats = payload.Seats
	snapshot.Quota = payload.Quota
	snapshot.Winners = payload.Winners
	snapshot.Rounds = payload.Rounds
	snapshot.InputsHash = payload.InputsHash
	return snapshot, nil
}
