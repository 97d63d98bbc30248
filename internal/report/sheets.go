package report

import (
	"context"
	"fmt"
	"time"

	"mlb_pitchers/report/internal/config"
	"mlb_pitchers/report/internal/models"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Tab is one worksheet
type Tab struct {
	ID    int64
	Title string
	Index int64
}

// Spreadsheet is the worksheet surface the writer needs
type Spreadsheet interface {
	Tabs(ctx context.Context) ([]Tab, error)
	AddTab(ctx context.Context, title string) error
	RenameTab(ctx context.Context, id int64, title string) error
	Clear(ctx context.Context, title string) error
	Write(ctx context.Context, title string, values [][]interface{}) error
}

// SheetsWriter publishes a report to one tab per date. A run for today
// also refreshes the first tab and retitles it "TODAY: as of HH:MM".
type SheetsWriter struct {
	book Spreadsheet
	loc  *time.Location
	now  func() time.Time
}

// NewSheetsWriter creates a writer over a spreadsheet
func NewSheetsWriter(book Spreadsheet, loc *time.Location) *SheetsWriter {
	if loc == nil {
		loc = time.Local
	}
	return &SheetsWriter{book: book, loc: loc, now: time.Now}
}

// Publish writes the report to its date tab, creating it when missing
func (w *SheetsWriter) Publish(ctx context.Context, r *models.Report) error {
	values := BuildTable(r).Values()
	title := config.SheetTabName(r.Date)

	tabs, err := w.book.Tabs(ctx)
	if err != nil {
		return err
	}

	if !hasTab(tabs, title) {
		if err := w.book.AddTab(ctx, title); err != nil {
			return err
		}
		log.Info().Str("tab", title).Msg("Worksheet created")
	}

	if err := w.replace(ctx, title, values); err != nil {
		return err
	}

	now := w.now().In(w.loc)
	if r.Date != now.Format(config.DateLayout) {
		return nil
	}

	first, ok := firstTab(tabs)
	if !ok {
		return nil
	}

	live := "TODAY: as of " + now.Format("15:04")
	if err := w.book.RenameTab(ctx, first.ID, live); err != nil {
		return err
	}
	if err := w.replace(ctx, live, values); err != nil {
		return err
	}

	log.Info().Str("tab", live).Msg("Live worksheet refreshed")
	return nil
}

func (w *SheetsWriter) replace(ctx context.Context, title string, values [][]interface{}) error {
	if err := w.book.Clear(ctx, title); err != nil {
		return err
	}
	return w.book.Write(ctx, title, values)
}

func hasTab(tabs []Tab, title string) bool {
	for _, t := range tabs {
		if t.Title == title {
			return true
		}
	}
	return false
}

func firstTab(tabs []Tab) (Tab, bool) {
	if len(tabs) == 0 {
		return Tab{}, false
	}
	first := tabs[0]
	for _, t := range tabs[1:] {
		if t.Index < first.Index {
			first = t
		}
	}
	return first, true
}

// GoogleSheet is a Spreadsheet backed by the Sheets v4 API
type GoogleSheet struct {
	svc *sheets.Service
	id  string
}

// NewGoogleSheet authenticates with a service account file
func NewGoogleSheet(ctx context.Context, credentialsFile, spreadsheetID string) (*GoogleSheet, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &GoogleSheet{svc: svc, id: spreadsheetID}, nil
}

func (g *GoogleSheet) Tabs(ctx context.Context) ([]Tab, error) {
	book, err := g.svc.Spreadsheets.Get(g.id).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	tabs := make([]Tab, 0, len(book.Sheets))
	for _, s := range book.Sheets {
		if s.Properties == nil {
			continue
		}
		tabs = append(tabs, Tab{ID: s.Properties.SheetId, Title: s.Properties.Title, Index: s.Properties.Index})
	}
	return tabs, nil
}

func (g *GoogleSheet) AddTab(ctx context.Context, title string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{Requests: []*sheets.Request{{
		AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{
			Title:          title,
			GridProperties: &sheets.GridProperties{RowCount: 100, ColumnCount: 20},
		}},
	}}}
	if _, err := g.svc.Spreadsheets.BatchUpdate(g.id, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to add worksheet %s: %w", title, err)
	}
	return nil
}

func (g *GoogleSheet) RenameTab(ctx context.Context, id int64, title string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{Requests: []*sheets.Request{{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{SheetId: id, Title: title},
			Fields:     "title",
		},
	}}}
	if _, err := g.svc.Spreadsheets.BatchUpdate(g.id, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to rename worksheet to %s: %w", title, err)
	}
	return nil
}

func (g *GoogleSheet) Clear(ctx context.Context, title string) error {
	if _, err := g.svc.Spreadsheets.Values.Clear(g.id, quote(title), &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear worksheet %s: %w", title, err)
	}
	return nil
}

func (g *GoogleSheet) Write(ctx context.Context, title string, values [][]interface{}) error {
	rng := quote(title) + "!A1"
	_, err := g.svc.Spreadsheets.Values.Update(g.id, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write worksheet %s: %w", title, err)
	}
	return nil
}

// quote makes a tab title safe for A1 notation
func quote(title string) string {
	return "'" + title + "'"
}
