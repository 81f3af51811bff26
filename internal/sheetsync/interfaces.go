package sheetsync

import "context"

// Store defines the spreadsheet operations the sync coordinator needs.
// This interface enables mocking and testing of Google Sheets operations.
type Store interface {
	// Locate resolves the target to an existing document. It returns
	// (nil, nil) when the target names nothing at all, and an error when an
	// explicit ID or name does not resolve.
	Locate(ctx context.Context, target Target) (*DocumentRef, error)

	// Create makes a new spreadsheet with the given title.
	Create(ctx context.Context, title string) (*DocumentRef, error)

	// ListSheets returns the document's sheets keyed by title.
	ListSheets(ctx context.Context, docID string) (map[string]SheetInfo, error)

	// EnsureSheet creates the titled sheet if missing and writes the header
	// row.
	EnsureSheet(ctx context.Context, docID, title string, header []string) (SheetInfo, error)

	// WriteRows writes the data rows below the header. ModeOverwrite clears
	// existing data first; ModeAppend adds after it.
	WriteRows(ctx context.Context, docID, title string, rows [][]string, mode WriteMode) error

	// ApplyFormatting applies presentation rules to one sheet.
	ApplyFormatting(ctx context.Context, docID string, sheetID int64, rules FormatRules) error
}
