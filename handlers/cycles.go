// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/danielhkuo/ranked-pick/auth"
	"github.com/danielhkuo/ranked-pick/cliparse"
	"github.com/danielhkuo/ranked-pick/middleware"
	"github.com/danielhkuo/ranked-pick/models"
)

type CycleHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCycleHandler(db *sql.DB, cfg cliparse.Config) *CycleHandler {
	return &CycleHandler{db: db, cfg: cfg}
}

// CreateCycle handles POST /cycles
func (h *CycleHandler) CreateCycle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCycleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Seats < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "seats must be at least 1")
		return
	}

	cycleID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate cycle ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create cycle")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO cycle (id, title, seats, phase, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, cycleID, req.Title, req.Seats, models.PhaseStart, time.Now().UTC())
	if err != nil {
		slog.Error("failed to insert cycle", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create cycle")
		return
	}

	slog.Info("cycle created", "cycle_id", cycleID, "seats", req.Seats)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateCycleResponse{
		CycleID:  cycleID,
		AdminKey: auth.GenerateAdminKey(cycleID, h.cfg.AdminKeySalt),
	})
}

// GetCycle handles GET /cycles/{id}
// Returns the cycle and its confirmed candidates in ballot order
func (h *CycleHandler) GetCycle(w http.ResponseWriter, r *http.Request) {
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

	candidates, err := getCandidates(h.db, cycleID, true)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CycleWithCandidates{
		Cycle:      cycle,
		Candidates: candidates,
	})
}

// SetPhase handles POST /cycles/{id}/phase
func (h *CycleHandler) SetPhase(w http.ResponseWriter, r *http.Request) {
	cycleID := r.PathValue("id")
	if !requireAdmin(w, r, cycleID, h.cfg.AdminKeySalt) {
		return
	}

	var req models.SetPhaseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !slices.Contains(models.Phases, req.Phase) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown phase")
		return
	}

	res, err := h.db.Exec(`UPDATE cycle SET phase = $1 WHERE id = $2`, req.Phase, cycleID)
	if err != nil {
		slog.Error("failed to update phase", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Cycle not found")
		return
	}

	slog.Info("cycle phase changed", "cycle_id", cycleID, "phase", req.Phase)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"phase": req.Phase})
}

// AddCandidate handles POST /cycles/{id}/candidates
func (h *CycleHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	cycleID := r.PathValue("id")
	if !requireAdmin(w, r, cycleID, h.cfg.AdminKeySalt) {
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
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
	if !candidatesEditable(cycle.Phase) {
		middleware.ErrorResponse(w, http.StatusConflict, "Candidates are locked once voting starts")
		return
	}

	candidateID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate candidate ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add candidate")
		return
	}

	// position fixes the candidate's place in the pool order used by the count
	_, err = h.db.Exec(`
		INSERT INTO candidate (id, cycle_id, name, status, position, updated_at)
		VALUES ($1, $2, $3, $4, (SELECT COUNT(*) FROM candidate WHERE cycle_id = $2), $5)
	`, candidateID, cycleID, req.Name, models.StatusConfirmed, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Candidate already exists")
			return
		}
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add candidate")
		return
	}

	slog.Info("candidate added", "cycle_id", cycleID, "candidate_id", candidateID)

	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidateResponse{
		CandidateID: candidateID,
	})
}

// DropCandidate handles POST /cycles/{id}/candidates/{cid}/drop
// Dropped candidates never reach the count.
func (h *CycleHandler) DropCandidate(w http.ResponseWriter, r *http.Request) {
	cycleID := r.PathValue("id")
	candidateID := r.PathValue("cid")
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
	// Ballots may already rank the candidate once voting opens
	if !candidatesEditable(cycle.Phase) {
		middleware.ErrorResponse(w, http.StatusConflict, "Candidates are locked once voting starts")
		return
	}

	res, err := h.db.Exec(`
		UPDATE candidate SET status = $1, updated_at = $2
		WHERE id = $3 AND cycle_id = $4
	`, models.StatusDropped, time.Now().UTC(), candidateID, cycleID)
	if err != nil {
		slog.Error("failed to drop candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	slog.Info("candidate dropped", "cycle_id", cycleID, "candidate_id", candidateID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": models.StatusDropped})
}

func candidatesEditable(phase string) bool {
	return phase != models.PhaseVoting && phase != models.PhaseAnnouncement
}

// getCycle loads one cycle; returns sql.ErrNoRows when absent
func getCycle(db *sql.DB, cycleID string) (models.Cycle, error) {
	var c models.Cycle
	err := db.QueryRow(`
		SELECT id, title, seats, phase, created_at
		FROM cycle
		WHERE id = $1
	`, cycleID).Scan(&c.ID, &c.Title, &c.Seats, &c.Phase, &c.CreatedAt)
	return c, err
}

// getCandidates returns a cycle's candidates in pool order
func getCandidates(db *sql.DB, cycleID string, confirmedOnly bool) ([]models.Candidate, error) {
	query := `
		SELECT id, cycle_id, name, status, updated_at
		FROM candidate
		WHERE cycle_id = $1
		ORDER BY position, id
	`
	args := []any{cycleID}
	if confirmedOnly {
		query = `
		SELECT id, cycle_id, name, status, updated_at
		FROM candidate
		WHERE cycle_id = $1 AND status = $2
		ORDER BY position, id
	`
		args = append(args, models.StatusConfirmed)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.CycleID, &c.Name, &c.Status, &c.UpdatedAt); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}
