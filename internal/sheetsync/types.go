// Package sheetsync publishes cleaned transaction views to a Google Sheets
// document: one sheet per view, master first, with Source formulas linking
// filtered rows back to the master sheet.
package sheetsync

import "fmt"

// Target identifies the destination document. ID wins over Name; Title names
// the document created when neither ID nor Name is set.
type Target struct {
	ID    string
	Name  string
	Title string
}

// DocumentRef is a resolved spreadsheet.
type DocumentRef struct {
	ID    string
	Title string
	URL   string
}

// SheetInfo describes one existing sheet inside a document.
type SheetInfo struct {
	SheetID int64

	// DataRows counts populated rows below the header.
	DataRows int64
}

// WriteMode controls what happens when a target sheet already holds data.
type WriteMode int

const (
	// ModeAsk defers the overwrite-or-append decision to the confirm
	// callback, per sheet, and only when existing data would be affected.
	ModeAsk WriteMode = iota
	ModeOverwrite
	ModeAppend
)

func (m WriteMode) String() string {
	switch m {
	case ModeOverwrite:
		return "overwrite"
	case ModeAppend:
		return "append"
	default:
		return "ask"
	}
}

// FormatRules describes the presentation applied to a sheet after writing.
type FormatRules struct {
	FreezeHeader    bool
	BoldHeader      bool
	DateColumns     []int
	CurrencyColumns []int
	ColumnCount     int
}

// ResolutionError reports a target that was explicitly identified but could
// not be resolved. An explicit ID or name never falls through to document
// creation; the mismatch is surfaced instead.
type ResolutionError struct {
	Target Target
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Target.ID != "" {
		return fmt.Sprintf("spreadsheet id %q: %v", e.Target.ID, e.Err)
	}
	return fmt.Sprintf("spreadsheet named %q: %v", e.Target.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ViewResult records the outcome of syncing one view. A failed view never
// aborts the run; the error is carried here and reported at the end.
type ViewResult struct {
	Name  string
	Title string
	Rows  int
	Mode  WriteMode

	// Step names the stage that failed: confirm, ensure, write, or format.
	Step string
	Err  error
}

// Report summarizes one sync run.
type Report struct {
	Document DocumentRef
	Created  bool
	Results  []ViewResult
}

// Failed returns the results that carry an error.
func (r *Report) Failed() []ViewResult {
	var out []ViewResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}
