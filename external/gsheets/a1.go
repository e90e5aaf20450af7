package gsheets

import (
	"strconv"
	"strings"

	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/sheet"
)

// columnLetters converts a 0-based column index to its A1 letters.
func columnLetters(col int) string {
	if col < 0 {
		return ""
	}
	var out []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		out = append([]byte{byte('A' + (n-1)%26)}, out...)
	}
	return string(out)
}

func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func cellRef(title string, row, col int) string {
	return quoteTitle(title) + "!" + columnLetters(col) + strconv.Itoa(row)
}

// rowsRef spans every worksheet column of rows fromRow..toRow.
func rowsRef(title string, fromRow, toRow int) string {
	return quoteTitle(title) + "!A" + strconv.Itoa(fromRow) + ":" + columnLetters(sheet.ColumnCount-1) + strconv.Itoa(toRow)
}
