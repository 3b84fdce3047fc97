package models

import (
	"time"

	"github.com/danielhkuo/ranked-pick/stv"
)

// Cycle phases
const (
	PhaseStart        = "start"
	PhaseNomination   = "nomination"
	PhaseConfirmation = "confirmation"
	PhaseFinalization = "finalization"
	PhaseVoting       = "voting"
	PhaseAnnouncement = "announcement"
)

// Phases lists every cycle phase in lifecycle order
var Phases = []string{
	PhaseStart,
	PhaseNomination,
	PhaseConfirmation,
	PhaseFinalization,
	PhaseVoting,
	PhaseAnnouncement,
}

// Candidate status constants
const (
	StatusConfirmed = "confirmed"
	StatusDropped   = "dropped"
)

// Counting method constants
const (
	MethodSTV = "stv"
)

// Request types

type CreateCycleRequest struct {
	Title string `json:"title"`
	Seats int    `json:"seats"`
}

type SetPhaseRequest struct {
	Phase string `json:"phase"`
}

type AddCandidateRequest struct {
	Name string `json:"name"`
}

type RegisterVoterRequest struct {
	Name string `json:"name"`
}

// candidate IDs, most preferred first
type SubmitBallotRequest struct {
	Ranking []string `json:"ranking"`
}

// Response types

type CreateCycleResponse struct {
	CycleID  string `json:"cycle_id"`
	AdminKey string `json:"admin_key"`
}

type AddCandidateResponse struct {
	CandidateID string `json:"candidate_id"`
}

type RegisterVoterResponse struct {
	VoterToken string `json:"voter_token"`
}

type SubmitBallotResponse struct {
	BallotID string `json:"ballot_id"`
	Message  string `json:"message"`
}

// Domain types

type Cycle struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Seats     int       `json:"seats"`
	Phase     string    `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
}

type Candidate struct {
	ID        string    `json:"id"`
	CycleID   string    `json:"cycle_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CycleWithCandidates struct {
	Cycle      Cycle       `json:"cycle"`
	Candidates []Candidate `json:"candidates"`
}

type Ballot struct {
	ID          string    `json:"id"`
	CycleID     string    `json:"cycle_id"`
	VoterToken  string    `json:"-"` // Never expose in JSON
	Ranking     []string  `json:"ranking"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ResultSnapshot is the stored outcome of a count for one cycle.
// A recount replaces it wholesale.
type ResultSnapshot struct {
	ID         string            `json:"id"`
	CycleID    string            `json:"cycle_id"`
	Method     string            `json:"method"`
	ComputedAt time.Time         `json:"computed_at"`
	Seats      int               `json:"seats"`
	Quota      int               `json:"quota"`
	Winners    []stv.CandidateID `json:"winners"`
	Rounds     []stv.Round       `json:"rounds"`
	InputsHash string            `json:"inputs_hash"` // Hash of all ballots for verification
}

// ResultsResponse pairs a snapshot with candidate names for display
type ResultsResponse struct {
	Cycle       Cycle             `json:"cycle"`
	Result      ResultSnapshot    `json:"result"`
	Candidates  map[string]string `json:"candidates"`
	BallotCount int               `json:"ballot_count"`
}

type VerifyResultsResponse struct {
	SnapshotID      string `json:"snapshot_id"`
	Verified        bool   `json:"verified"`
	InputsHashMatch bool   `json:"inputs_hash_match"`
	Message         string `json:"message,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
