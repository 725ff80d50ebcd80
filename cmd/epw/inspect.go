package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/epw-codec/internal/adapter/report"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE...",
	Short: "Print a YAML summary of each file",
	Long: `Decode each file and print a YAML document with its location, header
metadata, nested record counts, data range and missing-value counts.
Multiple files produce a multi-document YAML stream in argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	results, err := env.pipeline(false, nil).Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	written := 0
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		rep, err := report.Build(r.Source, r.Document, env.clock)
		if err != nil {
			return fmt.Errorf("%s: %w", r.Source, err)
		}
		if written > 0 {
			fmt.Fprintln(out, "---")
		}
		if err := report.Write(out, rep); err != nil {
			return err
		}
		written++
	}
	if n := failures(cmd, results); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(results))
	}
	return nil
}
