// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/ranked-pick/stv"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stvtally <subcommand>",
		Short:         "counts and verifies STV elections offline",
		Long:          `counts multi-seat STV elections from a JSON ballot file and re-checks stored results`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCountCmd(), newVerifyCmd())
	return root
}

func readInput(path string) (stv.Input, error) {
	var in stv.Input
	if err := readJSON(path, &in); err != nil {
		return stv.Input{}, err
	}
	return in, nil
}

func readResult(path string) (stv.Result, error) {
	var res stv.Result
	if err := readJSON(path, &res); err != nil {
		return stv.Result{}, err
	}
	return res, nil
}

// readJSON decodes path into v; "-" reads standard input
func readJSON(path string, v any) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// nonEmpty counts ballots that rank at least one candidate
func nonEmpty(in stv.Input) int {
	n := 0
	for _, b := range in.Ballots {
		if len(b.Ranking) > 0 {
			n++
		}
	}
	return n
}
