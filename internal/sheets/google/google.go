package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/vamshib4u/persis-indian-grill-expenses/internal/core"
	ports "github.com/vamshib4u/persis-indian-grill-expenses/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

// Ensure interface conformance
var (
	_ ports.MonthExporter = (*Client)(nil)
	_ ports.RecordLoader  = (*Client)(nil)
)

// NewFromConfig creates a Sheets client authenticated with a service account.
// Inline JSON wins over the file path.
func NewFromConfig(ctx context.Context, spreadsheetID, serviceAccountJSON, serviceAccountFile string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx, strings.TrimSpace(serviceAccountJSON), strings.TrimSpace(serviceAccountFile))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, spreadsheetID), nil
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID string) *Client {
	return &Client{svc: svc, spreadsheetID: spreadsheetID}
}

func newSheetsService(ctx context.Context, serviceAccountJSON, serviceAccountFile string) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created successfully")
	return service, nil
}

// ExportMonth overwrites the Sales, Expenses, Payouts, Summary and Cash
// Holders tabs with the month's data, creating missing tabs first.
func (c *Client) ExportMonth(ctx context.Context, m core.MonthExport) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	tabs := ports.MonthTabs(m)
	names := make([]string, len(tabs))
	for i, t := range tabs {
		names[i] = t.Name
	}
	if err := c.ensureTabs(ctx, names); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, tab := range tabs {
		g.Go(func() error {
			return c.writeTab(gctx, tab)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Exported month to Google Sheets",
		"month", m.Month.String(),
		"sales", len(m.Sales),
		"transactions", len(m.Transactions))
	return nil
}

func (c *Client) writeTab(ctx context.Context, tab ports.Tab) error {
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, quoteTab(tab.Name), &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear tab %s: %w", tab.Name, err)
	}

	vr := &gsheet.ValueRange{Values: tab.Values()}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, quoteTab(tab.Name)+"!A1", vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update tab %s: %w", tab.Name, err)
	}
	return nil
}

// ensureTabs adds any of names that the spreadsheet does not have yet.
func (c *Client) ensureTabs(ctx context.Context, names []string) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	existing := make(map[string]bool, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			existing[sh.Properties.Title] = true
		}
	}

	var reqs []*gsheet.Request
	for _, n := range names {
		if !existing[n] {
			reqs = append(reqs, &gsheet.Request{AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: n},
			}})
		}
	}
	if len(reqs) == 0 {
		return nil
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{Requests: reqs}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add tabs: %w", err)
	}
	slog.InfoContext(ctx, "Created missing spreadsheet tabs", "count", len(reqs))
	return nil
}

// LoadRecords reads the Sales, Expenses and Payouts tabs back into records.
// Loaded records carry no ids; rows that cannot be parsed are skipped.
func (c *Client) LoadRecords(ctx context.Context) ([]core.SaleRecord, []core.TransactionRecord, error) {
	if c.svc == nil {
		return nil, nil, errors.New("sheets service not initialized")
	}

	var salesVals, expenseVals, payoutVals [][]string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		salesVals, err = c.readTab(gctx, ports.TabSales)
		return err
	})
	g.Go(func() (err error) {
		expenseVals, err = c.readTab(gctx, ports.TabExpenses)
		return err
	})
	g.Go(func() (err error) {
		payoutVals, err = c.readTab(gctx, ports.TabPayouts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sales, skippedSales := parseSales(salesVals)
	expenses, skippedExpenses := parseTransactions(expenseVals, core.KindExpense)
	payouts, skippedPayouts := parseTransactions(payoutVals, core.KindPayout)

	if skipped := skippedSales + skippedExpenses + skippedPayouts; skipped > 0 {
		slog.WarnContext(ctx, "Skipped unparseable spreadsheet rows", "count", skipped)
	}
	slog.InfoContext(ctx, "Loaded records from Google Sheets",
		"sales", len(sales),
		"expenses", len(expenses),
		"payouts", len(payouts))

	return sales, append(expenses, payouts...), nil
}

func (c *Client) readTab(ctx context.Context, name string) ([][]string, error) {
	rng := quoteTab(name) + "!A1:Z"
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		out = append(out, toStrings(row))
	}
	return out, nil
}

// quoteTab wraps a tab name for A1 notation.
func quoteTab(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
