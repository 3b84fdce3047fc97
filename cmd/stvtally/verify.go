// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/ranked-pick/stv"
)

type verifyOptions struct {
	input  string
	result string
}

func newVerifyCmd() *cobra.Command {
	var opts verifyOptions

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "recount a ballot file and compare it with a stored result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Path to the ballot file")
	cmd.Flags().StringVarP(&opts.result, "result", "r", "", "Path to the stored result JSON")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("result")

	return cmd
}

func runVerify(out io.Writer, opts verifyOptions) error {
	in, err := readInput(opts.input)
	if err != nil {
		return err
	}
	stored, err := readResult(opts.result)
	if err != nil {
		return err
	}

	if err := stv.CheckConservation(stored, float64(nonEmpty(in))); err != nil {
		return fmt.Errorf("stored result: %w", err)
	}
	if err := stv.Verify(in, stored); err != nil {
		return err
	}

	fmt.Fprintf(out, "verified: %s rounds, winners %s\n",
		humanize.Comma(int64(len(stored.Rounds))), joinIDs(stored.Winners))
	return nil
}
