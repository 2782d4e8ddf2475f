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

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/troutdb/internal/iostore"
	"github.com/gnames/troutdb/pkg/store"
	"github.com/spf13/cobra"
)

// getStatsCmd returns the stats command.
func getStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Long: `Stats summarizes the current versions of stored records:
totals, coordinate completeness, distinct states, basins and species,
occupied S2 cells, reference taxa, genetic samples and the last import.

Examples:
  troutdb stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
	return statsCmd
}

func runStats() error {
	ctx := context.Background()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if !hasTables {
		gn.Warn("Database is empty, run 'troutdb create' first")
		return nil
	}

	stats, err := iostore.NewGORM(op.GORM()).Stats(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	fmt.Print(formatStats(stats))
	return nil
}

func formatStats(s store.Stats) string {
	var sb strings.Builder
	c := humanize.Comma

	fmt.Fprintf(&sb, "Records:           %s\n", c(s.Records))
	fmt.Fprintf(&sb, "Versions:          %s\n", c(s.Versions))
	fmt.Fprintf(&sb, "With coordinates:  %s (%.1f%%)\n",
		c(s.WithCoordinates), s.CoordinateCompleteness())
	fmt.Fprintf(&sb, "States:            %s\n", c(s.States))
	fmt.Fprintf(&sb, "Basins:            %s\n", c(s.Basins))
	fmt.Fprintf(&sb, "Species:           %s\n", c(s.Species))
	fmt.Fprintf(&sb, "S2 cells:          %s\n", c(s.Cells))
	fmt.Fprintf(&sb, "Reference taxa:    %s\n", c(s.Taxa))
	fmt.Fprintf(&sb, "Genetic samples:   %s\n", c(s.GeneticSamples))
	fmt.Fprintf(&sb, "Import runs:       %s\n", c(s.Runs))
	if r := s.LastRun; r != nil {
		fmt.Fprintf(&sb, "Last import:       '%s' at %s (%s rows, "+
			"%s inserted, %s updated)\n",
			r.Label,
			r.FinishedAt.UTC().Format(time.RFC3339),
			humanize.Comma(int64(r.TotalRows)),
			humanize.Comma(int64(r.Inserted)),
			humanize.Comma(int64(r.Updated)),
		)
	}
	return sb.String()
}
