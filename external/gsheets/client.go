package gsheets

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tourney-sheet-sync/internal/domain/sheet"
	"github.com/riskibarqy/tourney-sheet-sync/internal/platform/logging"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	valueRenderFormatted  = "FORMATTED_VALUE"
	valueInputUserEntered = "USER_ENTERED"
)

type ClientConfig struct {
	SpreadsheetKey  string
	WorksheetIndex  int
	CredentialsFile string
	Timeout         time.Duration
	Logger          *logging.Logger
	// Options are appended to the service options, e.g. a test endpoint.
	Options []option.ClientOption
}

// Client is the sheet.Store backed by the Sheets v4 values API. It works on
// one worksheet, picked by index.
type Client struct {
	cfg    ClientConfig
	logger *logging.Logger

	mu      sync.Mutex
	service *sheets.Service
	title   string
}

var _ sheet.Store = (*Client)(nil)

func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	cfg.SpreadsheetKey = strings.TrimSpace(cfg.SpreadsheetKey)
	if cfg.SpreadsheetKey == "" {
		return nil, crerr.New("spreadsheet key is required")
	}
	if cfg.WorksheetIndex < 0 {
		return nil, crerr.Newf("worksheet index must be >= 0, got %d", cfg.WorksheetIndex)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	c := &Client{cfg: cfg, logger: logger}
	service, err := c.newService(ctx)
	if err != nil {
		return nil, err
	}
	c.service = service
	return c, nil
}

func (c *Client) newService(ctx context.Context) (*sheets.Service, error) {
	var opts []option.ClientOption
	if path := strings.TrimSpace(c.cfg.CredentialsFile); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, crerr.Wrapf(err, "read google credentials file %s", path)
		}
		creds, err := google.CredentialsFromJSON(ctx, raw, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, crerr.Wrap(err, "parse google credentials")
		}
		opts = append(opts, option.WithTokenSource(creds.TokenSource))
	}
	opts = append(opts, c.cfg.Options...)

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, crerr.Wrap(err, "create sheets service")
	}
	return service, nil
}

// RefreshCredentials rebuilds the service from the credentials file, which
// forces a new access token on the next call.
func (c *Client) RefreshCredentials(ctx context.Context) error {
	service, err := c.newService(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.service = service
	c.title = ""
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "sheets credentials refreshed", "spreadsheet", c.cfg.SpreadsheetKey)
	return nil
}

func (c *Client) ReadRange(ctx context.Context, fromRow, toRow int) ([]sheet.Cell, error) {
	if fromRow < 1 || toRow < fromRow {
		return nil, crerr.Newf("invalid row range %d..%d", fromRow, toRow)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	service, title, err := c.worksheet(ctx)
	if err != nil {
		return nil, err
	}

	rng := rowsRef(title, fromRow, toRow)
	resp, err := service.Spreadsheets.Values.Get(c.cfg.SpreadsheetKey, rng).
		ValueRenderOption(valueRenderFormatted).
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapError(err, "read range "+rng)
	}

	var cells []sheet.Cell
	for i, values := range resp.Values {
		for col, value := range values {
			if col >= sheet.ColumnCount {
				break
			}
			cells = append(cells, sheet.Cell{Row: fromRow + i, Col: col, Value: cellString(value)})
		}
	}
	return cells, nil
}

func (c *Client) WriteCells(ctx context.Context, cells []sheet.Cell) error {
	if len(cells) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	service, title, err := c.worksheet(ctx)
	if err != nil {
		return err
	}

	data := make([]*sheets.ValueRange, 0, len(cells))
	for _, cell := range cells {
		if cell.Row < 1 || cell.Col < 0 || cell.Col >= sheet.ColumnCount {
			return crerr.Newf("cell out of range row=%d col=%d", cell.Row, cell.Col)
		}
		data = append(data, &sheets.ValueRange{
			Range:  cellRef(title, cell.Row, cell.Col),
			Values: [][]interface{}{{cell.Value}},
		})
	}

	resp, err := service.Spreadsheets.Values.BatchUpdate(c.cfg.SpreadsheetKey, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputUserEntered,
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return mapError(err, fmt.Sprintf("write %d cells", len(cells)))
	}

	c.logger.DebugContext(ctx, "sheets cells written", "requested", len(cells), "updated", resp.TotalUpdatedCells)
	return nil
}

// worksheet resolves the title of the configured worksheet once per service.
func (c *Client) worksheet(ctx context.Context) (*sheets.Service, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.title != "" {
		return c.service, c.title, nil
	}

	spreadsheet, err := c.service.Spreadsheets.Get(c.cfg.SpreadsheetKey).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, "", mapError(err, "open spreadsheet")
	}
	if c.cfg.WorksheetIndex >= len(spreadsheet.Sheets) {
		return nil, "", crerr.Newf("worksheet index %d out of range, spreadsheet has %d worksheets", c.cfg.WorksheetIndex, len(spreadsheet.Sheets))
	}
	props := spreadsheet.Sheets[c.cfg.WorksheetIndex].Properties
	if props == nil || props.Title == "" {
		return nil, "", crerr.Newf("worksheet %d has no title", c.cfg.WorksheetIndex)
	}

	c.title = props.Title
	return c.service, c.title, nil
}

func cellString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}
