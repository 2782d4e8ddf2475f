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
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/troutdb/internal/iofs"
	"github.com/gnames/troutdb/internal/ioimport"
	"github.com/gnames/troutdb/internal/ioschema"
	"github.com/gnames/troutdb/internal/iosheet"
	"github.com/gnames/troutdb/internal/iostore"
	"github.com/gnames/troutdb/pkg/report"
	"github.com/spf13/cobra"
)

// getImportCmd returns the import command.
func getImportCmd() *cobra.Command {
	var format, output string

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import occurrence records from an Excel workbook",
		Long: `Import reads an Excel workbook and stores its occurrence records.

All sheets are read first. Then:
  1. Reference taxa come from the taxa sheet (taxa_names). Without such
     sheet an empty database gets the built-in list of Mexican trout.
  2. Every row of occurrence sheets is normalized and validated.
     Valid rows are inserted as new records, stored as a new version
     of a changed record, or skipped when nothing changed.
  3. Genetic samples (Abadia_S1) are stored and linked to records.

By default all sheets except the taxa and genetic ones are occurrence
sheets. Use --sheets to choose them and their order.

The report lists every row problem. It is printed to stdout, or saved
to a file with --output. Use --dry-run to get the report without
saving anything.

Examples:
  troutdb import trout.xlsx
  troutdb import trout.xlsx --label "2024-05 merge" --format json
  troutdb import trout.xlsx --sheets Records,Extra --dry-run
  troutdb import trout.xlsx -o report.json -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], format, output)
		},
	}

	f := importCmd.Flags()
	f.StringP("label", "l", "",
		"label of the import run (default: start time)")
	f.StringSliceP("sheets", "s", nil,
		"occurrence sheets to import, in this order")
	f.BoolP("dry-run", "n", false,
		"process the workbook but discard all changes")
	f.IntP("jobs", "j", 0, "number of name parsing workers")
	f.StringVarP(&format, "format", "f", "text",
		"report format: text or json")
	f.StringVarP(&output, "output", "o", "",
		"save the report to a file instead of printing it")

	return importCmd
}

func runImport(
	cmd *cobra.Command,
	path string,
	format string,
	output string,
) error {
	if format != "text" && format != "json" {
		err := fmt.Errorf("unknown report format '%s'", format)
		gn.PrintErrorMessage(err)
		return err
	}
	cfg.Update(importFlags(cmd))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	wb, err := iosheet.Open(path)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer wb.Close()

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
		gn.Info("Database has no tables, creating schema...")
		if err = ioschema.NewManager(op).Create(ctx, cfg, false); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
	}

	if cfg.Import.DryRun {
		gn.Warn("Dry run: changes will be discarded")
	}
	gn.Info("Importing <em>%s</em>...", path)

	imp := ioimport.New(cfg, iostore.NewGORM(op.GORM()))
	rep, err := imp.RunImport(ctx, wb, cfg.Import.Label)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = writeReport(rep, format, output); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	c := func(i int) string { return humanize.Comma(int64(i)) }
	gn.Info(
		"Processed <em>%s</em> rows: %s inserted, %s updated, "+
			"%s skipped, %s failed",
		c(rep.TotalRows), c(rep.Inserted), c(rep.Updated),
		c(rep.SkippedDuplicate), c(rep.FailedValidation+rep.FailedWrite),
	)
	if output != "" {
		gn.Info("Report saved to <em>%s</em>", output)
	}
	return nil
}

func renderReport(rep *report.Report, format string) ([]byte, error) {
	if format == "json" {
		res, err := rep.JSON()
		if err != nil {
			return nil, ioimport.ReportError(rep.RunID, err)
		}
		return append(res, '\n'), nil
	}
	return []byte(rep.Text()), nil
}

func writeReport(rep *report.Report, format, output string) error {
	out, err := renderReport(rep, format)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = os.Stdout.Write(out)
		return err
	}

	if err = os.WriteFile(output, out, 0644); err != nil {
		return iofs.WriteFileError(output, err)
	}
	return nil
}
