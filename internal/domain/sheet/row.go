package sheet

import "sort"

// Cell addresses one worksheet cell. Row is 1-based, Col is 0-based.
type Cell struct {
	Row   int
	Col   int
	Value string
}

// Row is one data row of the worksheet snapshot.
type Row struct {
	Number int
	Cells  [ColumnCount]string
}

func (r Row) Value(col int) Value {
	if col < 0 || col >= ColumnCount {
		return Null()
	}
	return Coerce(r.Cells[col])
}

// Key returns the parsed primary key. ok is false for non-numeric keys.
func (r Row) Key() (int64, bool) {
	return r.Value(ColumnKey).Int64()
}

// GroupRows folds a cell range into rows ordered by row number. Rows whose
// key cell is empty are dropped.
func GroupRows(cells []Cell) []Row {
	byNumber := make(map[int]*Row)
	for _, cell := range cells {
		if cell.Col < 0 || cell.Col >= ColumnCount {
			continue
		}
		row, ok := byNumber[cell.Row]
		if !ok {
			row = &Row{Number: cell.Row}
			byNumber[cell.Row] = row
		}
		row.Cells[cell.Col] = cell.Value
	}

	out := make([]Row, 0, len(byNumber))
	for _, row := range byNumber {
		if row.Value(ColumnKey).IsNull() {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// NextFreeRow returns the row below the last occupied one.
func NextFreeRow(rows []Row) int {
	next := FirstDataRow
	for _, row := range rows {
		if row.Number >= next {
			next = row.Number + 1
		}
	}
	return next
}
