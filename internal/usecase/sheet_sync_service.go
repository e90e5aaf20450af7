package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/definition"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/match"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/sheet"
	"github.com/riskibarqy/tourney-sheet-sync/internal/platform/logging"
)

type SheetSyncConfig struct {
	MaxRow       int
	DateLocation *time.Location
	DumpDir      string
}

// SheetSyncResult describes the writes of one diff-sync pass.
type SheetSyncResult struct {
	RowsRead     int
	RowsUpdated  int
	RowsAppended int
	Changed      []sheet.Cell
	Appended     []sheet.Cell
}

type SheetSyncService struct {
	store  sheet.Store
	cfg    SheetSyncConfig
	dumper *snapshotDumper
	now    func() time.Time
	logger *logging.Logger
}

func NewSheetSyncService(store sheet.Store, cfg SheetSyncConfig, logger *logging.Logger) *SheetSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxRow < sheet.FirstDataRow {
		cfg.MaxRow = 400
	}
	if cfg.DateLocation == nil {
		cfg.DateLocation = time.Local
	}

	return &SheetSyncService{
		store:  store,
		cfg:    cfg,
		dumper: newSnapshotDumper(cfg.DumpDir),
		now:    time.Now,
		logger: logger,
	}
}

// Sync aligns the worksheet with the matches of idx. Existing rows are
// updated first, then unknown matches are appended below the last row.
func (s *SheetSyncService) Sync(ctx context.Context, idx *Index) (SheetSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SheetSyncService.Sync")
	defer span.End()

	if idx == nil {
		return SheetSyncResult{}, fmt.Errorf("%w: index is required", ErrInvalidInput)
	}

	cells, err := s.store.ReadRange(ctx, sheet.FirstDataRow, s.cfg.MaxRow)
	if err != nil {
		return SheetSyncResult{}, fmt.Errorf("read sheet rows %d..%d: %w", sheet.FirstDataRow, s.cfg.MaxRow, err)
	}
	rows := sheet.GroupRows(cells)
	s.dumper.dumpRows(ctx, s.logger, rows)

	result := SheetSyncResult{RowsRead: len(rows)}
	resolver := idx.AliasResolver()
	now := s.now()

	batch, changed, updatedRows := s.planUpdates(rows, idx, resolver, now)
	if len(batch) > 0 {
		if err := s.store.WriteCells(ctx, batch); err != nil {
			return result, fmt.Errorf("write updated cells count=%d: %w", len(changed), err)
		}
		result.Changed = changed
		result.RowsUpdated = updatedRows
		s.dumper.dumpCells(ctx, s.logger, changed)
		s.logger.InfoContext(ctx, "sheet cells updated",
			"rows", updatedRows,
			"cells", len(changed),
		)
		for _, cell := range changed {
			s.logger.DebugContext(ctx, "sheet cell changed",
				"row", cell.Row,
				"column", sheet.ColumnName(cell.Col),
				"value", cell.Value,
			)
		}
	}

	appended, appendedRows := s.planAppends(ctx, rows, idx, resolver, now)
	if len(appended) > 0 {
		if err := s.store.WriteCells(ctx, appended); err != nil {
			return result, fmt.Errorf("append rows count=%d: %w", appendedRows, err)
		}
		result.Appended = appended
		result.RowsAppended = appendedRows
		s.logger.InfoContext(ctx, "sheet rows appended", "rows", appendedRows)
	}

	return result, nil
}

// planUpdates returns the physical write batch and the changed cells. A
// changed row contributes every write-eligible cell so the row is written
// as a unit; unchanged cells carry the value that was read.
func (s *SheetSyncService) planUpdates(rows []sheet.Row, idx *Index, resolver *AliasResolver, now time.Time) (batch, changed []sheet.Cell, rowsChanged int) {
	for _, row := range rows {
		key, ok := row.Key()
		if !ok {
			continue
		}
		m, ok := idx.Match(key)
		if !ok {
			continue
		}

		derived := s.deriveRow(m, resolver, now)
		rowCells := make([]sheet.Cell, 0, len(sheet.WritableColumns()))
		rowChanged := false
		for _, col := range sheet.WritableColumns() {
			current := row.Value(col)
			want := derived[col]
			if want.IsNull() || want.Equal(current) {
				rowCells = append(rowCells, sheet.Cell{Row: row.Number, Col: col, Value: row.Cells[col]})
				continue
			}
			cell := sheet.Cell{Row: row.Number, Col: col, Value: want.String()}
			rowCells = append(rowCells, cell)
			changed = append(changed, cell)
			rowChanged = true
		}
		if rowChanged {
			batch = append(batch, rowCells...)
			rowsChanged++
		}
	}
	return batch, changed, rowsChanged
}

// planAppends lays out one new row per unknown match in index order.
func (s *SheetSyncService) planAppends(ctx context.Context, rows []sheet.Row, idx *Index, resolver *AliasResolver, now time.Time) ([]sheet.Cell, int) {
	onSheet := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		if key, ok := row.Key(); ok {
			onSheet[key] = struct{}{}
		}
	}

	next := sheet.NextFreeRow(rows)
	var cells []sheet.Cell
	appended := 0
	for _, m := range idx.Matches() {
		if _, ok := onSheet[m.ID]; ok {
			continue
		}
		if next > s.cfg.MaxRow {
			s.logger.WarnContext(ctx, "sheet is full, match not appended",
				"match_id", m.ID,
				"max_row", s.cfg.MaxRow,
			)
			continue
		}

		derived := s.deriveRow(m, resolver, now)
		cells = append(cells, sheet.Cell{Row: next, Col: sheet.ColumnKey, Value: derived[sheet.ColumnKey].String()})
		for _, col := range sheet.WritableColumns() {
			if derived[col].IsNull() {
				continue
			}
			cells = append(cells, sheet.Cell{Row: next, Col: col, Value: derived[col].String()})
		}
		s.logger.InfoContext(ctx, "match appended to sheet",
			"match_id", m.ID,
			"row", next,
			"team1", m.Team1,
			"team2", m.Team2,
		)
		onSheet[m.ID] = struct{}{}
		next++
		appended++
	}
	return cells, appended
}

// deriveRow computes the sheet values of m. Protected columns stay null.
func (s *SheetSyncService) deriveRow(m match.Match, resolver *AliasResolver, now time.Time) [sheet.ColumnCount]sheet.Value {
	var row [sheet.ColumnCount]sheet.Value
	row[sheet.ColumnKey] = sheet.Int(m.ID)
	row[sheet.ColumnDate] = sheet.Text(sheet.FormatDate(m.ScheduledAt, s.cfg.DateLocation, now))
	row[sheet.ColumnTeam1] = sheet.Text(resolver.Resolve(m.Team1, definition.TypeTeam))
	row[sheet.ColumnTeam2] = sheet.Text(resolver.Resolve(m.Team2, definition.TypeTeam))
	row[sheet.ColumnMap] = sheet.Text(resolver.Resolve(m.Map, definition.TypeMap))
	row[sheet.ColumnScore1] = sheet.IntPtr(m.Score1)
	row[sheet.ColumnScore2] = sheet.IntPtr(m.Score2)
	row[sheet.ColumnWinner] = sheet.Text(resolver.Resolve(m.Winner, definition.TypeTeam))
	return row
}
