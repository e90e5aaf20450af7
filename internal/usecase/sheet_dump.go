package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/sheet"
	"github.com/riskibarqy/tourney-sheet-sync/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

const (
	rangeDumpFile  = "range.json"
	updateDumpFile = "update.json"
)

type dumpRow struct {
	Row   int      `json:"row"`
	Cells []string `json:"cells"`
}

type dumpCell struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

// snapshotDumper writes the last read range and the last changed cells to
// dir for debugging. A zero dir disables it.
type snapshotDumper struct {
	dir string
}

func newSnapshotDumper(dir string) *snapshotDumper {
	return &snapshotDumper{dir: dir}
}

func (d *snapshotDumper) dumpRows(ctx context.Context, logger *logging.Logger, rows []sheet.Row) {
	if d == nil || d.dir == "" {
		return
	}
	payload := make([]dumpRow, 0, len(rows))
	for _, row := range rows {
		payload = append(payload, dumpRow{Row: row.Number, Cells: row.Cells[:]})
	}
	d.write(ctx, logger, rangeDumpFile, payload)
}

func (d *snapshotDumper) dumpCells(ctx context.Context, logger *logging.Logger, cells []sheet.Cell) {
	if d == nil || d.dir == "" {
		return
	}
	payload := make([]dumpCell, 0, len(cells))
	for _, cell := range cells {
		payload = append(payload, dumpCell{Row: cell.Row, Column: sheet.ColumnName(cell.Col), Value: cell.Value})
	}
	d.write(ctx, logger, updateDumpFile, payload)
}

func (d *snapshotDumper) write(ctx context.Context, logger *logging.Logger, name string, payload any) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	enc := sonic.ConfigDefault.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		logger.WarnContext(ctx, "encode sheet dump failed", "file", name, "error", err)
		return
	}

	path := filepath.Join(d.dir, name)
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		logger.WarnContext(ctx, "create sheet dump dir failed", "dir", d.dir, "error", err)
		return
	}
	if err := os.WriteFile(path, buf.B, 0o644); err != nil {
		logger.WarnContext(ctx, "write sheet dump failed", "file", path, "error", err)
	}
}
