package schema

import (
	"fmt"
	"testing"
)

func tableFrom(columns []string, rows [][]string) Table {
	t := Table{Columns: columns}
	for _, r := range rows {
		row := make(RawRow, len(columns))
		for i, col := range columns {
			if i < len(r) {
				row[col] = r[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// TestInferUninformativeHeaders checks that values alone resolve the schema
// when column names carry no signal.
func TestInferUninformativeHeaders(t *testing.T) {
	table := tableFrom(
		[]string{"col1", "col2", "col3"},
		[][]string{
			{"03/01/2024", "-4.50", "COFFEE SHOP"},
			{"03/02/2024", "2500.00", "PAYROLL DEPOSIT"},
			{"03/03/2024", "-19.99", "EBAY PURCHASE"},
			{"03/04/2024", "-12.00", "GROCERY STORE 42"},
			{"03/05/2024", "150.00", "TRANSFER RECEIVED"},
		},
	)

	res := Infer(table, Options{})

	if got := res.Roles[RoleDate]; got != "col1" {
		t.Errorf("date role = %q, want col1", got)
	}
	if got := res.Roles[RoleAmount]; got != "col2" {
		t.Errorf("amount role = %q, want col2", got)
	}
	if got := res.Roles[RoleDescription]; got != "col3" {
		t.Errorf("description role = %q, want col3", got)
	}
	if len(res.DateLayouts) == 0 || res.DateLayouts[0] != "01/02/2006" {
		t.Errorf("date layouts = %v, want 01/02/2006 first", res.DateLayouts)
	}
}

// TestInferMixedSignPreference checks that a mixed-sign column beats an
// all-positive numeric column for the amount role.
func TestInferMixedSignPreference(t *testing.T) {
	table := tableFrom(
		[]string{"a", "b", "c"},
		[][]string{
			{"2024-01-01", "100.00", "-50.25"},
			{"2024-01-02", "200.00", "75.00"},
			{"2024-01-03", "300.00", "-10.10"},
			{"2024-01-04", "400.00", "20.00"},
		},
	)

	res := Infer(table, Options{})

	if got := res.Roles[RoleAmount]; got != "c" {
		t.Errorf("amount role = %q, want c (mixed-sign column)", got)
	}
}

func TestInferNameBonusBreaksTies(t *testing.T) {
	// Two identical numeric columns; the header decides.
	table := tableFrom(
		[]string{"Balance Check", "Amount"},
		[][]string{
			{"10.00", "10.00"},
			{"-20.00", "-20.00"},
			{"30.00", "30.00"},
		},
	)

	res := Infer(table, Options{})

	if got := res.Roles[RoleAmount]; got != "Amount" {
		t.Errorf("amount role = %q, want Amount", got)
	}
}

func TestInferMemoAndCategory(t *testing.T) {
	table := tableFrom(
		[]string{"Date", "Amount", "Description", "Note", "Type"},
		[][]string{
			{"01/05/2024", "-12.50", "CARD PURCHASE AT SOME RETAILER", "card ending 1234 online", "DEBIT"},
			{"01/06/2024", "900.00", "FASTER PAYMENT RECEIVED REF 991", "january salary payment", "CREDIT"},
			{"01/07/2024", "-3.20", "CONTACTLESS PAYMENT BUS TICKET", "morning commute ticket", "DEBIT"},
			{"01/08/2024", "-44.00", "DIRECT DEBIT ENERGY SUPPLIER LTD", "monthly energy bill", "DEBIT"},
		},
	)

	res := Infer(table, Options{})

	want := RoleMap{
		RoleDate:        "Date",
		RoleAmount:      "Amount",
		RoleDescription: "Description",
		RoleMemo:        "Note",
		RoleCategory:    "Type",
	}
	for role, col := range want {
		if got := res.Roles[role]; got != col {
			t.Errorf("%s role = %q, want %q", role, got, col)
		}
	}
	if len(res.Unresolved) != 0 {
		t.Errorf("unexpected unresolved roles: %v", res.Unresolved)
	}
}

// TestInferClaimsAreExclusive checks that one column never serves two roles.
func TestInferClaimsAreExclusive(t *testing.T) {
	table := tableFrom(
		[]string{"Date", "Amount"},
		[][]string{
			{"01/05/2024", "-12.50"},
			{"01/06/2024", "900.00"},
		},
	)

	res := Infer(table, Options{})

	seen := make(map[string]Role)
	for role, col := range res.Roles {
		if prev, ok := seen[col]; ok {
			t.Fatalf("column %q claimed by both %s and %s", col, prev, role)
		}
		seen[col] = role
	}
}

func TestInferUnresolvedBelowThreshold(t *testing.T) {
	// No column looks like a date; the role must be surfaced, not guessed.
	table := tableFrom(
		[]string{"ref", "val"},
		[][]string{
			{"abc-1", "-10.00"},
			{"abc-2", "25.00"},
			{"abc-3", "1.00"},
		},
	)

	res := Infer(table, Options{})

	if _, ok := res.Roles[RoleDate]; ok {
		t.Fatalf("date role should be unassigned, got %q", res.Roles[RoleDate])
	}
	var found bool
	for _, req := range res.Unresolved {
		if req.Role == RoleDate {
			found = true
			if len(req.Candidates) == 0 {
				t.Error("date request carries no candidates")
			}
		}
	}
	if !found {
		t.Error("no resolution request for the date role")
	}
}

func TestInferSamplingSkipsNoise(t *testing.T) {
	// A big file whose interior confirms what the head suggests.
	columns := []string{"d", "v"}
	var rows [][]string
	for i := 0; i < 200; i++ {
		rows = append(rows, []string{fmt.Sprintf("01/%02d/2024", i%28+1), fmt.Sprintf("-%d.50", i+1)})
	}
	table := tableFrom(columns, rows)

	res := Infer(table, Options{SampleSize: 10})

	if got := res.Roles[RoleDate]; got != "d" {
		t.Errorf("date role = %q, want d", got)
	}
	if got := res.Roles[RoleAmount]; got != "v" {
		t.Errorf("amount role = %q, want v", got)
	}
}
