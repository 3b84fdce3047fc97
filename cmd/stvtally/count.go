// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/ranked-pick/stv"
)

type countOptions struct {
	input   string
	output  string
	summary bool
}

func newCountCmd() *cobra.Command {
	var opts countOptions

	cmd := &cobra.Command{
		Use:   "count",
		Short: "run an STV count and write the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Path to the ballot file (- for stdin)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Where to write the result JSON [Optional, default stdout]")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Print a round-by-round summary instead of JSON when writing to stdout")
	cmd.MarkFlagRequired("input")

	return cmd
}

func runCount(out io.Writer, opts countOptions) error {
	in, err := readInput(opts.input)
	if err != nil {
		return err
	}

	res, err := stv.Count(in)
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}

	slog.Info("count complete",
		"ballots", len(in.Ballots),
		"candidates", len(in.Candidates),
		"seats", res.Seats,
		"quota", res.Quota,
		"rounds", len(res.Rounds),
	)

	if opts.output != "" {
		if err := writeResult(opts.output, res); err != nil {
			return err
		}
	} else if !opts.summary {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if opts.summary {
		writeSummary(out, in, res)
	}
	return nil
}

func writeResult(path string, res stv.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeSummary(out io.Writer, in stv.Input, res stv.Result) {
	fmt.Fprintf(out, "%s ballots, %s seats, quota %s\n",
		humanize.Comma(int64(len(in.Ballots))),
		humanize.Comma(int64(res.Seats)),
		humanize.Comma(int64(res.Quota)))

	for _, r := range res.Rounds {
		var events []string
		if len(r.Elected) > 0 {
			verb := "elected"
			if r.Fill {
				verb = "seated without quota"
			}
			events = append(events, verb+" "+joinIDs(r.Elected))
		}
		if r.Eliminated != nil {
			events = append(events, "eliminated "+string(*r.Eliminated))
		}
		if r.Exhausted > 0 {
			events = append(events, fmt.Sprintf("%s exhausted", humanize.FtoaWithDigits(r.Exhausted, 4)))
		}
		fmt.Fprintf(out, "%s round: %s\n", humanize.Ordinal(r.Number), strings.Join(events, "; "))
	}

	for i, w := range res.Winners {
		fmt.Fprintf(out, "%s seat: %s\n", humanize.Ordinal(i+1), w)
	}
}

func joinIDs(ids []stv.CandidateID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
