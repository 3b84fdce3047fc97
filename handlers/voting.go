// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/ranked-pick/auth"
	"github.com/danielhkuo/ranked-pick/cliparse"
	"github.com/danielhkuo/ranked-pick/middleware"
	"github.com/danielhkuo/ranked-pick/models"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// RegisterVoter handles POST /cycles/{id}/voters
func (h *VotingHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	cycleID := r.PathValue("id")

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 2 || len(req.Name) > 50 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name must be 2-50 characters")
		return
	}

	if _, err := getCycle(h.db, cycleID); err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Cycle not found")
		return
	} else if err != nil {
		slog.Error("failed to query cycle", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	voterToken, err := auth.GenerateVoterToken()
	if err != nil {
		slog.Error("failed to generate voter token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO voter (cycle_id, name, voter_token, created_at)
		VALUES ($1, $2, $3, $4)
	`, cycleID, req.Name, voterToken, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Voter already registered")
			return
		}
		slog.Error("failed to insert voter", "error", err, "cycle_id", cycleID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
		return
	}

	slog.Info("voter registered", "cycle_id", cycleID)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		VoterToken: voterToken,
	})
}

// SubmitBallot handles POST /cycles/{id}/ballots
// One ballot per voter; the ranking may only name confirmed candidates, once each
func (h *VotingHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	cycleID := r.PathValue("id")

	voterToken := r.Header.Get(middleware.HeaderVoterToken)
	if voterToken == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Token header required")
		return
	}

	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
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
	if cycle.Phase != models.PhaseVoting {
		middleware.ErrorResponse(w, http.StatusConflict, "Cycle is not open for voting")
		return
	}

	var registered int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM voter WHERE cycle_id = $1 AND voter_token = $2
	`, cycleID, voterToken).Scan(&registered)
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if registered == 0 {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter token")
		return
	}

	candidates, err := getCandidates(h.db, cycleID, true)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if msg := validateRanking(req.Ranking, candidates); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	rankingJSON, err := json.Marshal(req.Ranking)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ranking")
		return
	}

	ballotID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate ballot ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO ballot (id, cycle_id, voter_token, ranking, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ballotID, cycleID, voterToken, string(rankingJSON), time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "You have already submitted a ballot for this cycle")
			return
		}
		slog.Error("failed to insert ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	slog.Info("ballot submitted", "cycle_id", cycleID, "ballot_id", ballotID, "ranked", len(req.Ranking))

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitBallotResponse{
		BallotID: ballotID,
		Message:  "Ballot submitted",
	})
}

// GetMyBallot handles GET /cycles/{id}/my-ballot
func (h *VotingHandler) GetMyBallot(w http.ResponseWriter, r *http.Request) {
	cycleID := r.PathValue("id")

	voterToken := r.Header.Get(middleware.HeaderVoterToken)
	if voterToken == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Token header required")
		return
	}

	var ballot models.Ballot
	var rankingJSON string
	err := h.db.QueryRow(`
		SELECT id, cycle_id, ranking, submitted_at
		FROM ballot
		WHERE cycle_id = $1 AND voter_token = $2
	`, cycleID, voterToken).Scan(&ballot.ID, &ballot.CycleID, &rankingJSON, &ballot.SubmittedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No ballot found")
		return
	}
	if err != nil {
		slog.Error("failed to query ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := json.Unmarshal([]byte(rankingJSON), &ballot.Ranking); err != nil {
		slog.Error("failed to parse stored ranking", "error", err, "ballot_id", ballot.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read ballot")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ballot)
}

// validateRanking returns a user-facing message for an unacceptable ranking,
// or "" when every entry is a distinct confirmed candidate
func validateRanking(ranking []string, candidates []models.Candidate) string {
	confirmed := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		confirmed[c.ID] = true
	}

	seen := make(map[string]bool, len(ranking))
	for _, id := range ranking {
		if !confirmed[id] {
			return "Invalid candidate in ballot"
		}
		if seen[id] {
			return "Candidate ranked more than once"
		}
		seen[id] = true
	}
	return ""
}
