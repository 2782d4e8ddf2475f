package cmd

import (
	"github.com/gnames/troutdb/pkg/config"
	"github.com/spf13/cobra"
)

// importFlags converts flags of the import command to options. Only
// flags set by the user override the configuration.
func importFlags(cmd *cobra.Command) []config.Option {
	var res []config.Option
	f := cmd.Flags()

	if f.Changed("label") {
		s, _ := f.GetString("label")
		res = append(res, config.OptImportLabel(s))
	}
	if f.Changed("sheets") {
		ss, _ := f.GetStringSlice("sheets")
		res = append(res, config.OptImportOccurrenceSheets(ss))
	}
	if f.Changed("dry-run") {
		b, _ := f.GetBool("dry-run")
		res = append(res, config.OptImportDryRun(b))
	}
	if f.Changed("jobs") {
		i, _ := f.GetInt("jobs")
		res = append(res, config.OptJobsNumber(i))
	}
	return res
}
