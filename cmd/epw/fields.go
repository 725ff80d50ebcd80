package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/epw-codec/internal/epw"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields FILE HEADER NAME...",
	Short: "Print metafields or columns of one section",
	Long: `Print named fields of one section of an EPW file.

HEADER is a header name (location, design_conditions, typical_extreme_periods,
ground_temperatures, holidays_daylight_saving, comments_1, comments_2,
data_periods) or "data" for the hourly records. A metafield prints its value;
a nested or data field prints its whole column, missing values left empty.

Examples:
  epw fields in.epw location city latitude
  epw fields in.epw ground_temperatures depth
  epw fields in.epw data dry_bulb_temperature`,
	Args: cobra.MinimumNArgs(3),
	RunE: runFields,
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	path, section, names := args[0], args[1], args[2:]

	doc, err := env.decodeFile(cmd.Context(), path)
	if err != nil {
		return err
	}
	for _, name := range names {
		entry, err := doc.Lookup(section, name)
		if err != nil {
			return err
		}
		printEntry(cmd.OutOrStdout(), section, name, entry)
	}
	return nil
}

// printEntry writes one "section.name<TAB>value" line. Columns are printed
// as their encoded tokens separated by spaces. Opaque payloads come back as
// a nested entry without a column and print like a metafield.
func printEntry(w io.Writer, section, name string, e epw.Entry) {
	if !e.Nested || e.Column.Name() == "" {
		fmt.Fprintf(w, "%s.%s\t%s\n", section, name, e.Value)
		return
	}
	tokens := make([]string, e.Column.Len())
	for i := range tokens {
		tokens[i] = e.Column.At(i).String()
	}
	fmt.Fprintf(w, "%s.%s\t%s\n", section, name, strings.Join(tokens, " "))
}
