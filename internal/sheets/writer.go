package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"github.com/sony/gobreaker"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/momo-ledger/internal/common"
	"github.com/Veraticus/momo-ledger/internal/service"
)

// ReportWriter writes a ledger report somewhere.
type ReportWriter interface {
	Write(ctx context.Context, report *Report) error
}

// Writer implements ReportWriter for Google Sheets.
type Writer struct {
	service *sheets.Service
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, cfg Config, logger *slog.Logger) (*Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := createSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  cfg,
		service: srv,
		breaker: newBreaker(logger),
		logger:  logger,
	}, nil
}

// Write replaces the contents of every report tab.
func (w *Writer) Write(ctx context.Context, report *Report) error {
	tabs := report.Tabs()
	w.logger.Info("starting sheets export",
		"transactions", len(report.Transactions),
		"tabs", len(tabs))

	retryOpts := service.RetryOptions{
		MaxAttempts:  max(w.config.RetryAttempts, 1),
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var sheetIDs map[string]int64
	var spreadsheetID string
	err := common.WithRetry(ctx, func() error {
		return w.guard(func() error {
			var getErr error
			spreadsheetID, sheetIDs, getErr = w.getOrCreateSpreadsheet(ctx)
			return getErr
		})
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("%w: failed to get spreadsheet: %v", common.ErrSheetsAPI, err)
	}

	for _, tab := range tabs {
		err := common.WithRetry(ctx, func() error {
			return w.guard(func() error {
				if clearErr := w.clearTab(ctx, spreadsheetID, tab.Name); clearErr != nil {
					return clearErr
				}
				return w.writeTab(ctx, spreadsheetID, tab)
			})
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("%w: failed to write %s: %v", common.ErrSheetsAPI, tab.Name, err)
		}
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.guard(func() error {
				return w.applyFormatting(ctx, spreadsheetID, formattingRequests(tabs, sheetIDs))
			})
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already written.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("sheets export completed",
		"spreadsheet_id", spreadsheetID,
		"transactions", len(report.Transactions))

	return nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, cfg Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if cfg.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(cfg.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		token := &oauth2.Token{
			RefreshToken: cfg.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = oauthConfig(cfg.ClientID, cfg.ClientSecret, "").TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet returns the spreadsheet id and the sheet id of every
// report tab, adding tabs that are missing.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, map[string]int64, error) {
	if w.config.SpreadsheetID == "" {
		spreadsheet := &sheets.Spreadsheet{
			Properties: &sheets.SpreadsheetProperties{
				Title:    w.config.SpreadsheetName,
				TimeZone: w.config.TimeZone,
			},
		}
		for _, name := range tabNames() {
			spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{
				Properties: &sheets.SheetProperties{Title: name},
			})
		}

		created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
		if err != nil {
			return "", nil, fmt.Errorf("unable to create spreadsheet: %w", err)
		}

		w.logger.Info("created new spreadsheet",
			"id", created.SpreadsheetId,
			"url", created.SpreadsheetUrl)

		// Later exports in this process reuse it.
		w.config.SpreadsheetID = created.SpreadsheetId
		return created.SpreadsheetId, sheetIDsOf(created), nil
	}

	existing, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
	}

	ids := sheetIDsOf(existing)
	var requests []*sheets.Request
	for _, name := range missingTabs(ids) {
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: name},
			},
		})
	}
	if len(requests) == 0 {
		return existing.SpreadsheetId, ids, nil
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(existing.SpreadsheetId,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("unable to add report tabs: %w", err)
	}
	for _, reply := range resp.Replies {
		if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
			ids[reply.AddSheet.Properties.Title] = reply.AddSheet.Properties.SheetId
		}
	}

	return existing.SpreadsheetId, ids, nil
}

func (w *Writer) clearTab(ctx context.Context, spreadsheetID, tab string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, tab+"!A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeTab writes values in batches to avoid API limits.
func (w *Writer) writeTab(ctx context.Context, spreadsheetID string, tab Tab) error {
	for i := 0; i < len(tab.Values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(tab.Values))

		batch := tab.Values[i:end]
		rangeStr := fmt.Sprintf("%s!A%d", tab.Name, i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, &sheets.ValueRange{Values: batch}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "tab", tab.Name, "start_row", i+1, "rows", len(batch))
	}
	return nil
}

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error {
	if len(requests) == 0 {
		return nil
	}
	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	return err
}

// formattingRequests bolds each tab's header row, freezes it and resizes columns.
func formattingRequests(tabs []Tab, sheetIDs map[string]int64) []*sheets.Request {
	var requests []*sheets.Request
	for _, tab := range tabs {
		id, ok := sheetIDs[tab.Name]
		if !ok {
			continue
		}

		headerRow := int64(0)
		if tab.Name == TabSummary {
			headerRow = 8
		}
		columns := int64(0)
		for _, row := range tab.Values {
			columns = max(columns, int64(len(row)))
		}

		requests = append(requests,
			&sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          id,
						StartRowIndex:    headerRow,
						EndRowIndex:      headerRow + 1,
						StartColumnIndex: 0,
						EndColumnIndex:   columns,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							TextFormat: &sheets.TextFormat{Bold: true},
						},
					},
					Fields: "userEnteredFormat.textFormat",
				},
			},
			&sheets.Request{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId: id,
						GridProperties: &sheets.GridProperties{
							FrozenRowCount: headerRow + 1,
						},
					},
					Fields: "gridProperties.frozenRowCount",
				},
			},
			&sheets.Request{
				AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
					Dimensions: &sheets.DimensionRange{
						SheetId:    id,
						Dimension:  "COLUMNS",
						StartIndex: 0,
						EndIndex:   columns,
					},
				},
			},
		)
	}
	return requests
}

func tabNames() []string {
	return []string{TabSummary, TabTransactions, TabMonthly, TabContacts}
}

func sheetIDsOf(s *sheets.Spreadsheet) map[string]int64 {
	ids := make(map[string]int64, len(s.Sheets))
	for _, sh := range s.Sheets {
		if sh.Properties != nil {
			ids[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	return ids
}

func missingTabs(ids map[string]int64) []string {
	var missing []string
	for _, name := range tabNames() {
		if _, ok := ids[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
