package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkVerbose bool

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Verify that files survive a decode/encode round trip",
	Long: `Decode every file, re-encode it and compare the result with the input
line by line. Exits non-zero when any file fails to decode or differs.

Examples:
  epw check in.epw
  EPW_WORKERS=8 epw check -v weather/*.epw`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "print a line for every file that passes")
}

func runCheck(cmd *cobra.Command, args []string) error {
	results, err := env.pipeline(true, nil).Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	if checkVerbose {
		for _, r := range results {
			if r.Err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\t%d records\t%s\n", r.Source, r.Records, r.Duration)
			}
		}
	}
	if n := failures(cmd, results); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(results))
	}
	return nil
}
