package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/epw-codec/internal/adapter/sqlite"
)

var exportDB string

var exportCmd = &cobra.Command{
	Use:   "export --db PATH FILE...",
	Short: "Load files into a SQLite database",
	Long: `Decode each file and write it to a SQLite database: one row in
epw_documents, every header value in epw_header_fields and one typed row per
hourly record in epw_records. Missing values are stored as NULL.

Examples:
  epw export --db weather.db in.epw
  epw export --db weather.db weather/*.epw`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportDB, "db", "", "path of the SQLite database to write")
	_ = exportCmd.MarkFlagRequired("db")
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	store, err := sqlite.Open(exportDB, env.codec.Registry())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	results, err := env.pipeline(false, store).Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	docs, records, err := store.Count(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d documents, %d records\n", exportDB, docs, records)

	if n := failures(cmd, results); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(results))
	}
	return nil
}
