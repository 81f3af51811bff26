package records

import (
	"fmt"
	"strings"

	"github.com/dvloznov/bank-cleaner/internal/categorize"
	"github.com/dvloznov/bank-cleaner/internal/normalize"
	"github.com/dvloznov/bank-cleaner/internal/schema"
)

// Builder composes the normalizers and the categorizer into canonical
// records. Fields are plain configuration so the builder is constructible
// with no ambient state.
type Builder struct {
	Roles schema.RoleMap

	// DateLayouts are tried before the normalizer's fallback list; normally
	// the layouts that won during schema inference.
	DateLayouts []string

	// Symbols is the currency symbol set stripped from amounts.
	Symbols string

	// YearPivot resolves two-digit years.
	YearPivot int

	Categorizer *categorize.Engine
}

// Result is the outcome of one build pass over an input table.
type Result struct {
	Records  []*CanonicalRecord
	Rejected []RowError

	// DateWarnings counts rows kept with a nil date.
	DateWarnings int
}

// Build converts the table's rows into canonical records in input order.
// MasterRow values are contiguous over accepted rows: a rejected row does not
// leave a hole. Rows whose amount fails to parse are rejected and reported;
// rows whose date fails to parse are kept with a nil date.
func (b *Builder) Build(t schema.Table) (Result, error) {
	amountCol, ok := b.Roles[schema.RoleAmount]
	if !ok || amountCol == "" {
		return Result{}, fmt.Errorf("records: no column assigned the amount role")
	}
	if b.Categorizer == nil {
		b.Categorizer = categorize.NewEngine(categorize.DefaultRules(categorize.DefaultMerchants()))
	}

	dateCol := b.Roles[schema.RoleDate]
	descCol := b.Roles[schema.RoleDescription]
	memoCol := b.Roles[schema.RoleMemo]
	catCol := b.Roles[schema.RoleCategory]

	var res Result
	for i, row := range t.Rows {
		rawAmount := row[amountCol]
		amount, err := normalize.Amount(rawAmount, b.Symbols)
		if err != nil {
			res.Rejected = append(res.Rejected, RowError{Row: i + 1, Value: rawAmount, Err: err})
			continue
		}

		rec := &CanonicalRecord{
			MasterRow: len(res.Records) + 1,
			Amount:    amount,
			Details:   combineDetails(row[descCol], row[memoCol]),
		}

		if dateCol != "" {
			raw := strings.TrimSpace(row[dateCol])
			if raw != "" {
				if d, ok := normalize.Date(raw, b.DateLayouts, b.YearPivot); ok {
					rec.Date = d
				} else {
					res.DateWarnings++
				}
			}
		}

		if cat := strings.TrimSpace(row[catCol]); catCol != "" && cat != "" {
			rec.Category = cat
		} else {
			rec.Category = b.Categorizer.Categorize(rec.Details, rec.Amount)
		}

		res.Records = append(res.Records, rec)
	}

	return res, nil
}

// combineDetails joins description and memo, dropping a memo that merely
// repeats the description.
func combineDetails(desc, memo string) string {
	desc = strings.TrimSpace(desc)
	memo = strings.TrimSpace(memo)
	switch {
	case memo == "":
		return desc
	case desc == "":
		return memo
	case strings.Contains(strings.ToLower(desc), strings.ToLower(memo)):
		return desc
	default:
		return desc + " " + memo
	}
}
