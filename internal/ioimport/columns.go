package ioimport

import (
	"github.com/gnames/troutdb/pkg/normalize"
	"github.com/gnames/troutdb/pkg/sheet"
)

// columns gives access to cells of auxiliary sheets by header key, so
// "Sample_Code", "sample code" and "SampleCode" are the same column.
type columns map[string]sheet.Cell

func newColumns(row sheet.Row) columns {
	res := make(columns, len(row.Cells))
	for h, c := range row.Cells {
		k := normalize.HeaderKey(h)
		if _, ok := normalize.Text(res[k]); ok {
			continue
		}
		res[k] = c
	}
	return res
}

// text returns the clean value of the first present column.
func (c columns) text(headers ...string) string {
	for _, h := range headers {
		if s, ok := normalize.Text(c[normalize.HeaderKey(h)]); ok {
			return s
		}
	}
	return ""
}
