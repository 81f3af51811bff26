// Package records builds canonical transaction records from raw rows. The
// ordered CanonicalRecord sequence produced here is the single source of
// truth for every later view.
package records

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// CanonicalRecord is the normalized, schema-independent representation of one
// transaction. Immutable once built.
type CanonicalRecord struct {
	// MasterRow is the stable 1-based ordinal joining filtered-view records
	// back to this record. Never reused or renumbered within a run.
	MasterRow int

	// Date is nil when the raw value could not be parsed; a missing date is
	// a warning, not a rejection.
	Date *civil.Date

	// Amount is signed: positive = credit/incoming, negative =
	// debit/outgoing. Rows whose amount cannot be parsed are rejected, so
	// Amount is always meaningful.
	Amount decimal.Decimal

	// Details is the normalized description, with the memo appended when it
	// adds information.
	Details string

	// Category is always non-empty; the categorizer falls back to its
	// default label.
	Category string
}

// RowError reports one rejected input row. Rejections are accumulated and
// reported in the run summary, never silently dropped.
type RowError struct {
	Row   int    // 1-based data row index in the input file
	Value string // offending raw amount text
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: amount %q: %v", e.Row, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
