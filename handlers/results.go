// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/ranked-pick/auth"
	"github.com/danielhkuo/ranked-pick/cliparse"
	"github.com/danielhkuo/ranked-pick/middleware"
	"github.com/danielhkuo/ranked-pick/models"
	"github.com/danielhkuo/ranked-pick/stv"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg, now: time.Now}
}

// ComputeResults handles POST /cycles/{id}/results
// Counts the cycle's ballots and replaces any stored snapshot
func (h *ResultsHandler) ComputeResults(w http.ResponseWriter, r *http.Request) {
	cycleID := r.PathValue("id")

	if !requireAdmin(w, r, cycleID, h.cfg.AdminKeySalt) {
		return
	}

	cycle, err := getCycle(h.db, cycleID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Cycle not found")
		return
	}
	if err != nil {
		slog.Error("failed to query cycle", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if cycle.Phase != models.PhaseVoting && cycle.Phase != models.PhaseAnnouncement {
		middleware.ErrorResponse(w, http.StatusConflict, "Cycle has not reached voting")
		return
	}

	in, err := loadCountInput(h.db, cycle)
	if err != nil {
		slog.Error("failed to load count input", "error", err, "cycle_id", cycleID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Postgres TIMESTAMP holds microseconds
	clock := func() time.Time { return h.now().UTC().Truncate(time.Microsecond) }

	res, err := stv.Count(in, stv.WithClock(clock))
	if err != nil {
		writeCountError(w, cycleID, err)
		return
	}

	snapshot, err := saveSnapshot(h.db, cycleID, res, computeInputsHash(in))
	if err != nil {
		slog.Error("failed to save snapshot", "error", err, "cycle_id", cycleID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save results")
		return
	}

	slog.Info("results computed",
		"cycle_id", cycleID,
		"snapshot_id", snapshot.ID,
		"ballots", len(in.Ballots),
		"quota", res.Quota,
		"rounds", len(res.Rounds),
		"winners", res.Winners,
	)

	middleware.JSONResponse(w, http.StatusOK, snapshot)
}

// GetResults handles GET /cycles/{id}/results
// Returns 403 before the announcement phase unless the caller holds the admin key
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	cycleID := r.PathValue("id")

	cycle, err := getCycle(h.db, cycleID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Cycle not found")
		return
	}
	if err != nil {
		slog.Error("failed to query cycle", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if cycle.Phase != models.PhaseAnnouncement {
		if auth.ValidateAdminKey(cycleID, r.Header.Get(middleware.HeaderAdminKey), h.cfg.AdminKeySalt) != nil {
			middleware.ErrorResponse(w, http.StatusForbidden, "Results are hidden until announcement")
			return
		}
	}

	snapshot, err := loadSnapshot(h.db, cycleID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Results have not been computed")
		return
	}
	if err != nil {
		slog.Error("failed to load snapshot", "error", err, "cycle_id", cycleID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	candidates, err := getCandidates(h.db, cycleID, false)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	names := make(map[string]string, len(candidates))
	for _, c := range candidates {
		names[c.ID] = c.Name
	}

	var ballotCount int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM ballot WHERE cycle_id = $1
	`, cycleID).Scan(&ballotCount)
	if err != nil {
		slog.Error("failed to count ballots for results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Cycle:       cycle,
		Result:      snapshot,
		Candidates:  names,
		BallotCount: ballotCount,
	})
}

// VerifyResults handles GET /cycles/{id}/results/verify
// Recounts the current ballots and compares against the stored snapshot
func (h *ResultsHandler) VerifyResults(w http.ResponseWriter, r *http.Request) {
	cycleID := r.PathValue("id")

	if !requireAdmin(w, r, cycleID, h.cfg.AdminKeySalt) {
		return
	}

	cycle, err := getCycle(h.db, cycleID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Cycle not found")
		return
	}
	if err != nil {
		slog.Error("failed to query cycle", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	snapshot, err := loadSnapshot(h.db, cycleID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Results have not been computed")
		return
	}
	if err != nil {
		slog.Error("failed to load snapshot", "error", err, "cycle_id", cycleID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	in, err := loadCountInput(h.db, cycle)
	if err != nil {
		slog.Error("failed to load count input", "error", err, "cycle_id", cycleID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.VerifyResultsResponse{
		SnapshotID:      snapshot.ID,
		InputsHashMatch: computeInputsHash(in) == snapshot.InputsHash,
	}

	err = stv.Verify(in, stv.Result{
		Seats:      snapshot.Seats,
		Quota:      snapshot.Quota,
		Winners:    snapshot.Winners,
		Rounds:     snapshot.Rounds,
		ComputedAt: snapshot.ComputedAt,
	})
	switch {
	case err == nil:
		resp.Verified = true
	case errors.Is(err, stv.ErrResultMismatch):
		resp.Message = err.Error()
	default:
		writeCountError(w, cycleID, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// writeCountError maps engine errors to HTTP responses
func writeCountError(w http.ResponseWriter, cycleID string, err error) {
	switch {
	case errors.Is(err, stv.ErrNoBallots):
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "No ballots have been submitted")
	case errors.Is(err, stv.ErrInvalidConfiguration):
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "Seats must be between 1 and the number of confirmed candidates")
	case errors.Is(err, stv.ErrInvalidBallot):
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "A ballot ranks a candidate that is no longer confirmed: "+err.Error())
	default:
		slog.Error("count failed", "error", err, "cycle_id", cycleID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Count failed")
	}
}
