/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/troutdb/internal/iostore"
	"github.com/gnames/troutdb/pkg/occurrence"
	"github.com/spf13/cobra"
)

// getHistoryCmd returns the history command.
func getHistoryCmd() *cobra.Command {
	var purge, yes bool

	historyCmd := &cobra.Command{
		Use:   "history RECORD_ID",
		Short: "Show all versions of a record",
		Long: `History prints every stored version of a record, oldest first,
together with the fields that changed in each version.

With --purge the record is removed together with all its versions.
Genetic samples linked to the record are kept, but lose the link.

Examples:
  troutdb history MX-0001
  troutdb history MX-0001 --purge
  troutdb history MX-0001 --purge --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(args[0], purge, yes)
		},
	}

	historyCmd.Flags().BoolVar(&purge, "purge", false,
		"delete the record and all its versions")
	historyCmd.Flags().BoolVarP(&yes, "yes", "y", false,
		"do not ask for confirmation")

	return historyCmd
}

func runHistory(recordID string, purge, yes bool) error {
	ctx := context.Background()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	st := iostore.NewGORM(op.GORM())
	vs, err := st.Versions(ctx, recordID)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if len(vs) == 0 {
		gn.Warn("Record <em>%s</em> is not in the database", recordID)
		return nil
	}

	fmt.Print(formatHistory(vs))

	if !purge {
		return nil
	}

	if !yes {
		gn.Warn("\nAll %d versions of <em>%s</em> will be deleted.",
			len(vs), recordID)
		if !confirm("Do you want to continue? (yes/no): ") {
			gn.Info("Aborted. No changes made.")
			return nil
		}
	}

	n, err := st.DeleteRecord(ctx, recordID)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Deleted record <em>%s</em> with %d versions", recordID, n)
	return nil
}

// formatHistory renders versions with fields changed since the
// previous version.
func formatHistory(vs []occurrence.Version) string {
	var sb strings.Builder
	for i, v := range vs {
		fmt.Fprintf(&sb, "version %d  %s  %s\n",
			v.Number,
			v.ImportedAt.UTC().Format(time.RFC3339),
			v.SourceLabel,
		)
		fmt.Fprintf(&sb, "  %s\n", v.Summary())
		if v.CellToken != "" {
			fmt.Fprintf(&sb, "  cell: %s\n", v.CellToken)
		}
		if i > 0 {
			changed := vs[i-1].Diff(v.Record)
			fmt.Fprintf(&sb, "  changed: %s\n", strings.Join(changed, ", "))
		}
	}
	return sb.String()
}
