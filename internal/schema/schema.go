// Package schema infers the semantic role of each column in a bank export of
// unknown shape.
//
// Inference scores every (role, column) pair from a sample of raw values and
// assigns roles greedily, highest confidence first, with mutually exclusive
// column claims. Roles that never cross the confidence threshold stay
// unassigned and are surfaced as resolution requests for the boundary layer.
package schema

import "fmt"

// Role is the semantic meaning assigned to a raw column.
type Role string

const (
	RoleDate        Role = "date"
	RoleDescription Role = "description"
	RoleAmount      Role = "amount"
	RoleCategory    Role = "category"
	RoleMemo        Role = "memo"
)

// RawRow maps an original column name to its raw cell text.
type RawRow map[string]string

// Table is one parsed input file: the original column names in file order
// plus the raw rows. Rows are never mutated after parsing.
type Table struct {
	Columns []string
	Rows    []RawRow
}

// RoleMap maps each assigned role to the original column it was inferred
// from. A missing key means the role is unassigned. Each column appears for
// at most one role.
type RoleMap map[Role]string

// Request asks the boundary layer to resolve a role the inferencer could not
// assign above the confidence threshold. Candidates are the unclaimed
// columns, best scoring first.
type Request struct {
	Role       Role
	Candidates []string
}

// Result is the outcome of inference over a sample.
type Result struct {
	Roles RoleMap

	// Confidence holds the winning score per assigned role.
	Confidence map[Role]float64

	// DateLayouts are the layouts that matched the date column's sampled
	// values, most frequent first. The date normalizer tries these before
	// its fallback list.
	DateLayouts []string

	// Unresolved lists roles left unassigned, with candidate columns.
	Unresolved []Request
}

// AmbiguousError reports a required role that could not be assigned. No
// canonical records can be built until the role is resolved.
type AmbiguousError struct {
	Role       Role
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("schema: no column could be confidently assigned the %s role (candidates: %v)", e.Role, e.Candidates)
}
