package sheet

import "fmt"

// Memory is a Source that keeps sheets in memory.
type Memory struct {
	names  []string
	sheets map[string][]Row
}

// NewMemory creates an empty in-memory workbook.
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string][]Row)}
}

// AddSheet appends a sheet. Each record becomes a row; row indices start
// at 2, because row 1 is the header. Adding an existing sheet name
// replaces its rows but keeps its position.
func (m *Memory) AddSheet(name string, records ...map[string]Cell) *Memory {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row{Sheet: name, Index: i + 2, Cells: rec}
	}
	if _, ok := m.sheets[name]; !ok {
		m.names = append(m.names, name)
	}
	m.sheets[name] = rows
	return m
}

// ListSheets implements Source.
func (m *Memory) ListSheets() ([]string, error) {
	res := make([]string, len(m.names))
	copy(res, m.names)
	return res, nil
}

// ReadRows implements Source.
func (m *Memory) ReadRows(name string) ([]Row, error) {
	rows, ok := m.sheets[name]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", name)
	}
	res := make([]Row, len(rows))
	copy(res, rows)
	return res, nil
}
