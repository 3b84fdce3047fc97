// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielhkuo/ranked-pick/stv"
)

func TestResolveTie(t *testing.T) {
	tests := []struct {
		name    string
		tied    []stv.CandidateID
		ballots []stv.Ballot
		want    stv.CandidateID
	}{
		{
			name:    "fewest first preferences",
			tied:    ids("A", "B"),
			ballots: ballots(repeat(2, "A"), repeat(1, "B")),
			want:    "B",
		},
		{
			name: "decided at second preference",
			tied: ids("A", "B"),
			ballots: ballots(
				repeat(1, "A"),
				repeat(1, "B"),
				repeat(5, "C", "A"),
				repeat(3, "C", "B"),
			),
			want: "B",
		},
		{
			name: "narrows before moving on",
			tied: ids("A", "B", "C"),
			ballots: ballots(
				repeat(1, "A"),
				repeat(1, "B"),
				repeat(2, "C"),
				repeat(1, "D", "A"),
			),
			want: "B",
		},
		{
			name: "falls back to smallest id",
			tied: ids("B", "A"),
			ballots: ballots(
				repeat(8, "C"),
				repeat(1, "A"),
				repeat(1, "B"),
			),
			want: "A",
		},
		{
			name:    "single candidate",
			tied:    ids("Q"),
			ballots: repeat(1, "Q"),
			want:    "Q",
		},
		{
			name: "empty group",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stv.ResolveTie(tt.tied, tt.ballots))
		})
	}
}

func TestResolveTieIsReproducible(t *testing.T) {
	tied := ids("D", "A", "C", "B")
	bs := ballots(
		repeat(3, "A", "B"),
		repeat(3, "B", "A"),
		repeat(3, "C", "D"),
		repeat(3, "D", "C"),
	)

	want := stv.ResolveTie(tied, bs)
	for range 20 {
		assert.Equal(t, want, stv.ResolveTie(tied, bs))
	}
	assert.Equal(t, stv.CandidateID("A"), want)
}

func TestResolveTieLeavesInputUntouched(t *testing.T) {
	tied := ids("B", "A")
	stv.ResolveTie(tied, ballots(repeat(1, "A"), repeat(1, "B")))
	assert.Equal(t, ids("B", "A"), tied)
}
