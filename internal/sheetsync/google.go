package sheetsync

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// GoogleStore is the concrete implementation of Store backed by the Google
// Sheets and Drive APIs. Drive is needed only for by-name lookup; Sheets does
// everything else.
type GoogleStore struct {
	sheets *sheets.Service
	drive  *drive.Service
}

// NewGoogleStore creates a GoogleStore from authenticated client options.
func NewGoogleStore(ctx context.Context, opts ...option.ClientOption) (*GoogleStore, error) {
	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGoogleStore: sheets service: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGoogleStore: drive service: %w", err)
	}
	return &GoogleStore{sheets: sheetsSvc, drive: driveSvc}, nil
}

// DocumentURL returns the browser URL of a spreadsheet.
func DocumentURL(id string) string {
	return "https://docs.google.com/spreadsheets/d/" + id
}

// Locate resolves the target. An explicit ID or name that does not resolve is
// an error, never a trigger for creation.
func (g *GoogleStore) Locate(ctx context.Context, target Target) (*DocumentRef, error) {
	if target.ID != "" {
		doc, err := g.sheets.Spreadsheets.Get(target.ID).Context(ctx).Do()
		if err != nil {
			return nil, &ResolutionError{Target: target, Err: err}
		}
		return &DocumentRef{
			ID:    doc.SpreadsheetId,
			Title: doc.Properties.Title,
			URL:   DocumentURL(doc.SpreadsheetId),
		}, nil
	}

	if target.Name != "" {
		query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeDriveQuery(target.Name), spreadsheetMimeType)
		list, err := g.drive.Files.List().
			Q(query).
			OrderBy("modifiedTime desc").
			PageSize(2).
			Fields("files(id, name)").
			Context(ctx).
			Do()
		if err != nil {
			return nil, &ResolutionError{Target: target, Err: err}
		}
		switch len(list.Files) {
		case 0:
			return nil, &ResolutionError{Target: target, Err: fmt.Errorf("no spreadsheet found")}
		case 1:
		default:
			return nil, &ResolutionError{Target: target, Err: fmt.Errorf("name matches more than one spreadsheet")}
		}
		f := list.Files[0]
		return &DocumentRef{ID: f.Id, Title: f.Name, URL: DocumentURL(f.Id)}, nil
	}

	return nil, nil
}

// Create makes a new spreadsheet with the given title.
func (g *GoogleStore) Create(ctx context.Context, title string) (*DocumentRef, error) {
	doc, err := g.sheets.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	return &DocumentRef{
		ID:    doc.SpreadsheetId,
		Title: doc.Properties.Title,
		URL:   DocumentURL(doc.SpreadsheetId),
	}, nil
}

// ListSheets returns the document's sheets keyed by title, including how many
// data rows each holds below the header.
func (g *GoogleStore) ListSheets(ctx context.Context, docID string) (map[string]SheetInfo, error) {
	doc, err := g.sheets.Spreadsheets.Get(docID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("ListSheets: %w", err)
	}

	out := make(map[string]SheetInfo, len(doc.Sheets))
	ranges := make([]string, 0, len(doc.Sheets))
	titles := make([]string, 0, len(doc.Sheets))
	for _, s := range doc.Sheets {
		out[s.Properties.Title] = SheetInfo{SheetID: s.Properties.SheetId}
		ranges = append(ranges, a1Range(s.Properties.Title, "A:A"))
		titles = append(titles, s.Properties.Title)
	}
	if len(ranges) == 0 {
		return out, nil
	}

	// One batch read of column A gives the data row count of every sheet.
	values, err := g.sheets.Spreadsheets.Values.BatchGet(docID).Ranges(ranges...).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("ListSheets: reading row counts: %w", err)
	}
	for i, vr := range values.ValueRanges {
		if i >= len(titles) {
			break
		}
		info := out[titles[i]]
		if n := int64(len(vr.Values)); n > 1 {
			info.DataRows = n - 1 // minus the header row
		}
		out[titles[i]] = info
	}
	return out, nil
}

// EnsureSheet creates the titled sheet if missing and writes the header row.
func (g *GoogleStore) EnsureSheet(ctx context.Context, docID, title string, header []string) (SheetInfo, error) {
	existing, err := g.listSheetIDs(ctx, docID)
	if err != nil {
		return SheetInfo{}, fmt.Errorf("EnsureSheet: %w", err)
	}

	info, ok := existing[title]
	if !ok {
		resp, err := g.sheets.Spreadsheets.BatchUpdate(docID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: title},
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return SheetInfo{}, fmt.Errorf("EnsureSheet: adding sheet %q: %w", title, err)
		}
		info = SheetInfo{SheetID: resp.Replies[0].AddSheet.Properties.SheetId}
	}

	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	_, err = g.sheets.Spreadsheets.Values.Update(docID, a1Range(title, "A1"), &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return SheetInfo{}, fmt.Errorf("EnsureSheet: writing header of %q: %w", title, err)
	}
	return info, nil
}

// WriteRows writes the data rows below the header. USER_ENTERED input keeps
// the Source formulas live.
func (g *GoogleStore) WriteRows(ctx context.Context, docID, title string, rows [][]string, mode WriteMode) error {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	if mode == ModeAppend {
		_, err := g.sheets.Spreadsheets.Values.Append(docID, a1Range(title, "A1"), &sheets.ValueRange{
			Values: values,
		}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("WriteRows: appending to %q: %w", title, err)
		}
		return nil
	}

	_, err := g.sheets.Spreadsheets.Values.Clear(docID, a1Range(title, "A2:ZZ"), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("WriteRows: clearing %q: %w", title, err)
	}
	if len(values) == 0 {
		return nil
	}
	_, err = g.sheets.Spreadsheets.Values.Update(docID, a1Range(title, "A2"), &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("WriteRows: writing %q: %w", title, err)
	}
	return nil
}

// ApplyFormatting freezes and bolds the header, applies date and currency
// number formats, and auto-sizes the columns. Safe to reapply.
func (g *GoogleStore) ApplyFormatting(ctx context.Context, docID string, sheetID int64, rules FormatRules) error {
	var requests []*sheets.Request

	if rules.FreezeHeader {
		requests = append(requests, &sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        sheetID,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		})
	}

	if rules.BoldHeader {
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:       sheetID,
					StartRowIndex: 0,
					EndRowIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat.bold",
			},
		})
	}

	for _, col := range rules.DateColumns {
		requests = append(requests, numberFormatRequest(sheetID, col, "DATE", "yyyy-mm-dd"))
	}
	for _, col := range rules.CurrencyColumns {
		requests = append(requests, numberFormatRequest(sheetID, col, "CURRENCY", "$#,##0.00"))
	}

	if rules.ColumnCount > 0 {
		requests = append(requests, &sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(rules.ColumnCount),
				},
			},
		})
	}

	if len(requests) == 0 {
		return nil
	}
	_, err := g.sheets.Spreadsheets.BatchUpdate(docID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("ApplyFormatting: %w", err)
	}
	return nil
}

// ListRecent returns the n most recently modified spreadsheets visible to the
// authenticated user.
func (g *GoogleStore) ListRecent(ctx context.Context, n int64) ([]DocumentRef, error) {
	list, err := g.drive.Files.List().
		Q(fmt.Sprintf("mimeType = '%s' and trashed = false", spreadsheetMimeType)).
		OrderBy("modifiedTime desc").
		PageSize(n).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	out := make([]DocumentRef, 0, len(list.Files))
	for _, f := range list.Files {
		out = append(out, DocumentRef{ID: f.Id, Title: f.Name, URL: DocumentURL(f.Id)})
	}
	return out, nil
}

// listSheetIDs returns the document's sheet IDs keyed by title without
// reading any cell data.
func (g *GoogleStore) listSheetIDs(ctx context.Context, docID string) (map[string]SheetInfo, error) {
	doc, err := g.sheets.Spreadsheets.Get(docID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make(map[string]SheetInfo, len(doc.Sheets))
	for _, s := range doc.Sheets {
		out[s.Properties.Title] = SheetInfo{SheetID: s.Properties.SheetId}
	}
	return out, nil
}

// escapeDriveQuery escapes a string literal for a Drive search query, where
// backslash is the escape character.
func escapeDriveQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// a1Range builds a quoted A1-notation range. Sheet titles escape an embedded
// quote by doubling it.
func a1Range(title, ref string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(title, `'`, `''`), ref)
}

func numberFormatRequest(sheetID int64, col int, formatType, pattern string) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    1,
				StartColumnIndex: int64(col),
				EndColumnIndex:   int64(col) + 1,
			},
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					NumberFormat: &sheets.NumberFormat{Type: formatType, Pattern: pattern},
				},
			},
			Fields: "userEnteredFormat.numberFormat",
		},
	}
}
