// Package google implements the sheet ports against the Google Sheets v4
// API using service-account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fluxo/internal/core"
	ports "fluxo/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// worksheet is the tab holding the ledger; empty means "first tab",
	// resolved lazily on the first read.
	worksheet string
}

// Ensure interface conformance
var (
	_ ports.RecordSource = (*Client)(nil)
	_ ports.RecordSink   = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional: GOOGLE_SHEET_NAME (default: first tab of the spreadsheet),
// GOOGLE_SERVICE_ACCOUNT_JSON / GOOGLE_SERVICE_ACCOUNT_FILE /
// GOOGLE_APPLICATION_CREDENTIALS for auth.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, ports.NewSourceError(ports.KindConfiguration, errors.New("missing GOOGLE_SPREADSHEET_ID"))
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		worksheet:     strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME")),
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, ports.NewSourceError(ports.KindConfiguration, fmt.Errorf("read service account file: %w", err))
		}
	default:
		return nil, ports.NewSourceError(ports.KindConfiguration,
			errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)"))
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Read returns every row of the ledger tab as raw records keyed by the
// header row. Failures come back categorized so the dashboard can show the
// matching hint.
func (c *Client) Read(ctx context.Context) ([]core.RawRecord, error) {
	if c.svc == nil {
		return nil, ports.NewSourceError(ports.KindConfiguration, errors.New("sheets service not initialized"))
	}
	tab, err := c.resolveWorksheet(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, tab).Context(ctx).Do()
	if err != nil {
		return nil, categorize(fmt.Errorf("read %s: %w", tab, err))
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	header := toStrings(resp.Values[0])
	records := make([]core.RawRecord, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		cols := toStrings(row)
		if allBlank(cols) {
			continue
		}
		rec := make(core.RawRecord, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			rec[name] = safeGet(cols, i)
		}
		records = append(records, rec)
	}

	slog.InfoContext(ctx, "Ledger read from Google Sheets",
		"spreadsheet_id", c.spreadsheetID, "worksheet", tab, "rows", len(records))
	return records, nil
}

// Update replaces the whole tab: clear, then write header plus rows in the
// given column order.
func (c *Client) Update(ctx context.Context, header []string, rows []core.RawRecord) error {
	if c.svc == nil {
		return ports.NewSourceError(ports.KindConfiguration, errors.New("sheets service not initialized"))
	}
	tab, err := c.resolveWorksheet(ctx)
	if err != nil {
		return err
	}

	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, tab, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return categorize(fmt.Errorf("clear %s: %w", tab, err))
	}

	values := make([][]any, 0, len(rows)+1)
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	values = append(values, headerRow)
	for _, rec := range rows {
		row := make([]any, len(header))
		for i, h := range header {
			row[i] = rec[h]
		}
		values = append(values, row)
	}

	vr := &gsheet.ValueRange{Values: values}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, tab+"!A1", vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return categorize(fmt.Errorf("update %s: %w", tab, err))
	}

	slog.InfoContext(ctx, "Ledger written to Google Sheets",
		"spreadsheet_id", c.spreadsheetID, "worksheet", tab, "rows", len(rows))
	return nil
}

// resolveWorksheet returns the configured tab name or, when none was set,
// the first tab of the spreadsheet. The resolved name is cached.
func (c *Client) resolveWorksheet(ctx context.Context) (string, error) {
	if c.worksheet != "" {
		return c.worksheet, nil
	}
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return "", categorize(fmt.Errorf("get spreadsheet metadata: %w", err))
	}
	if len(meta.Sheets) == 0 {
		return "", ports.NewSourceError(ports.KindNotFound, errors.New("spreadsheet has no worksheets"))
	}
	c.worksheet = meta.Sheets[0].Properties.Title
	return c.worksheet, nil
}

// categorize maps Google API status codes onto the port error kinds.
func categorize(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return ports.NewSourceError(ports.KindPermission, err)
		case 400, 404:
			// 400 is what the API returns for an unknown range/tab name.
			return ports.NewSourceError(ports.KindNotFound, err)
		}
	}
	return ports.NewSourceError(ports.KindConnectivity, err)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func allBlank(cols []string) bool {
	for _, c := range cols {
		if c != "" {
			return false
		}
	}
	return true
}
