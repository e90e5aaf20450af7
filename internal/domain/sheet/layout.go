package sheet

// Column positions of the match worksheet, 0-based.
const (
	ColumnKey = iota
	ColumnDate
	ColumnTeam1
	ColumnVersus
	ColumnTeam2
	ColumnMap
	ColumnScore1
	ColumnDivider
	ColumnScore2
	ColumnSelection
	ColumnCertainty
	ColumnFlags
	ColumnWinner

	ColumnCount
)

// FirstDataRow is the first row below the header, 1-based.
const FirstDataRow = 2

var writableColumns = [...]int{
	ColumnDate,
	ColumnTeam1,
	ColumnTeam2,
	ColumnMap,
	ColumnScore1,
	ColumnScore2,
	ColumnWinner,
}

// WritableColumns lists the derived columns the syncer may write after a row exists.
func WritableColumns() []int {
	out := make([]int, len(writableColumns))
	copy(out, writableColumns[:])
	return out
}

func IsWritable(col int) bool {
	for _, c := range writableColumns {
		if c == col {
			return true
		}
	}
	return false
}

// IsProtected reports whether col is owned by the sheet operator. Protected
// cells are never written, not even on append.
func IsProtected(col int) bool {
	switch col {
	case ColumnVersus, ColumnDivider, ColumnSelection, ColumnCertainty, ColumnFlags:
		return true
	default:
		return false
	}
}

var columnNames = [ColumnCount]string{
	"key", "date", "team1", "vs", "team2", "map", "score1", "divider", "score2",
	"selection", "certainty", "flags", "winner",
}

func ColumnName(col int) string {
	if col < 0 || col >= ColumnCount {
		return "unknown"
	}
	return columnNames[col]
}
