// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateCycleRequest: title, seats
  - SetPhaseRequest: phase
  - AddCandidateRequest: name
  - RegisterVoterRequest: name
  - SubmitBallotRequest: ranking ([]string, most preferred first)

# Response Types

Types for JSON responses:

  - CreateCycleResponse: cycle_id, admin_key
  - AddCandidateResponse: candidate_id
  - RegisterVoterResponse: voter_token
  - SubmitBallotResponse: ballot_id, message
  - ResultsResponse: cycle, result, candidate names, ballot_count
  - VerifyResultsResponse: snapshot_id, verified, inputs_hash_match
  - ErrorResponse: error, message

# Domain Types

  - Cycle: election metadata, seat count and phase
  - Candidate: nominee with confirmed/dropped status
  - Ballot: one voter's ranking for a cycle
  - ResultSnapshot: stored STV outcome (winners and rounds from package stv)

# Constants

Phases, in order:

	PhaseStart, PhaseNomination, PhaseConfirmation,
	PhaseFinalization, PhaseVoting, PhaseAnnouncement

Candidate status:

	StatusConfirmed = "confirmed"
	StatusDropped   = "dropped"

Counting method:

	MethodSTV = "stv"
*/
package models
