package schema

import (
	"sort"
	"strings"

	"github.com/dvloznov/bank-cleaner/internal/normalize"
)

// Options tunes inference.
type Options struct {
	// SampleSize is the number of leading rows sampled; a few interior rows
	// are added on top so a header-adjacent block of bad data cannot skew
	// the scores. Defaults to 20.
	SampleSize int

	// Threshold is the minimum confidence for an automatic assignment.
	// Defaults to 0.5.
	Threshold float64

	// Symbols is the currency symbol set used when scoring amount columns.
	Symbols string
}

// Default inference tuning.
const (
	DefaultSampleSize = 20
	DefaultThreshold  = 0.5
)

const (
	// nameBonus is added when the column name itself contains one of the
	// role's key terms. Informative headers win ties; values still dominate
	// so uninformative headers (col1, col2) resolve correctly.
	nameBonus = 0.2

	// mixedSignBonus prefers an amount column whose values show both signs,
	// since bank exports typically encode direction in sign.
	mixedSignBonus = 0.15
)

// nameTerms are the header substrings that hint at each role.
var nameTerms = map[Role][]string{
	RoleDate:        {"date", "trans", "time", "posted"},
	RoleDescription: {"description", "desc", "details", "payee", "merchant"},
	RoleAmount:      {"amount", "amt", "value", "debit", "credit"},
	RoleCategory:    {"category", "cat", "type", "class"},
	RoleMemo:        {"memo", "note", "reference", "ref"},
}

// requestRoles are the roles surfaced to the resolution channel when
// unassigned. Memo is genuinely optional and never prompted for.
var requestRoles = []Role{RoleDate, RoleDescription, RoleAmount, RoleCategory}

type candidate struct {
	role  Role
	col   string
	score float64
}

// Infer assigns semantic roles to the table's columns from a value sample.
func Infer(t Table, opts Options) Result {
	if opts.SampleSize <= 0 {
		opts.SampleSize = DefaultSampleSize
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}

	sample := sampleRows(t, opts.SampleSize)

	scores := make(map[Role]map[string]float64, 5)
	layoutHits := make(map[string]map[string]int, len(t.Columns))

	for _, col := range t.Columns {
		values := columnValues(sample, col)

		dateScore, layouts := scoreDate(values)
		layoutHits[col] = layouts
		amountScore := scoreAmount(values, opts.Symbols)
		textScore := scoreText(values, dateScore, amountScore)
		categoryScore := scoreCategory(values, dateScore, amountScore)

		setScore(scores, RoleDate, col, dateScore+termBonus(RoleDate, col))
		setScore(scores, RoleAmount, col, amountScore+termBonus(RoleAmount, col))
		setScore(scores, RoleDescription, col, textScore+termBonus(RoleDescription, col))
		// Memo is a weaker claim on the same free-text signal, so the
		// description role always claims the stronger text column first.
		setScore(scores, RoleMemo, col, textScore*0.8+termBonus(RoleMemo, col))
		setScore(scores, RoleCategory, col, categoryScore+termBonus(RoleCategory, col))
	}

	// Greedy assignment across all roles at once, best score first.
	var candidates []candidate
	for role, byCol := range scores {
		for col, s := range byCol {
			if s >= opts.Threshold {
				candidates = append(candidates, candidate{role: role, col: col, score: s})
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].role != candidates[j].role {
			return rolePriority(candidates[i].role) < rolePriority(candidates[j].role)
		}
		return candidates[i].col < candidates[j].col
	})

	res := Result{
		Roles:      make(RoleMap, 5),
		Confidence: make(map[Role]float64, 5),
	}
	claimed := make(map[string]bool, len(t.Columns))
	for _, c := range candidates {
		if claimed[c.col] {
			continue
		}
		if _, done := res.Roles[c.role]; done {
			continue
		}
		res.Roles[c.role] = c.col
		res.Confidence[c.role] = c.score
		claimed[c.col] = true
	}

	if dateCol, ok := res.Roles[RoleDate]; ok {
		res.DateLayouts = rankLayouts(layoutHits[dateCol])
	}

	for _, role := range requestRoles {
		if _, ok := res.Roles[role]; ok {
			continue
		}
		res.Unresolved = append(res.Unresolved, Request{
			Role:       role,
			Candidates: unclaimedByScore(t.Columns, claimed, scores[role]),
		})
	}

	return res
}

// sampleRows takes the first n rows plus up to three interior rows.
func sampleRows(t Table, n int) []RawRow {
	if len(t.Rows) <= n {
		return t.Rows
	}
	sample := make([]RawRow, 0, n+3)
	sample = append(sample, t.Rows[:n]...)
	mid := len(t.Rows) / 2
	for i := mid; i < mid+3 && i < len(t.Rows); i++ {
		if i >= n {
			sample = append(sample, t.Rows[i])
		}
	}
	return sample
}

// columnValues collects the non-empty sampled cells of one column.
func columnValues(sample []RawRow, col string) []string {
	values := make([]string, 0, len(sample))
	for _, row := range sample {
		if v := strings.TrimSpace(row[col]); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// scoreDate returns the fraction of values matching a recognized date layout
// and the per-layout hit counts.
func scoreDate(values []string) (float64, map[string]int) {
	layouts := make(map[string]int)
	if len(values) == 0 {
		return 0, layouts
	}
	hits := 0
	for _, v := range values {
		if layout, ok := normalize.DetectLayout(v); ok {
			hits++
			layouts[layout]++
		}
	}
	return float64(hits) / float64(len(values)), layouts
}

// scoreAmount returns the fraction of values parseable as a signed number,
// with a bonus when both signs appear.
func scoreAmount(values []string, symbols string) float64 {
	if len(values) == 0 {
		return 0
	}
	hits, pos, neg := 0, 0, 0
	for _, v := range values {
		d, err := normalize.Amount(v, symbols)
		if err != nil {
			continue
		}
		hits++
		switch d.Sign() {
		case 1:
			pos++
		case -1:
			neg++
		}
	}
	score := float64(hits) / float64(len(values))
	if pos > 0 && neg > 0 {
		score += mixedSignBonus
	}
	return score
}

// scoreText favors long free-text columns that are neither dates nor amounts.
func scoreText(values []string, dateScore, amountScore float64) float64 {
	if len(values) == 0 || dateScore > 0.5 || amountScore > 0.5 {
		return 0
	}
	total := 0
	for _, v := range values {
		total += len(v)
	}
	avg := float64(total) / float64(len(values))
	score := avg / 24.0
	if score > 1 {
		score = 1
	}
	return score
}

// scoreCategory favors short, low-cardinality label columns: repeated values
// relative to row count.
func scoreCategory(values []string, dateScore, amountScore float64) float64 {
	if len(values) < 2 || dateScore > 0.5 || amountScore > 0.5 {
		return 0
	}
	distinct := make(map[string]bool, len(values))
	total := 0
	for _, v := range values {
		distinct[strings.ToLower(v)] = true
		total += len(v)
	}
	if avg := float64(total) / float64(len(values)); avg > 24 {
		return 0
	}
	ratio := float64(len(distinct)) / float64(len(values))
	if ratio > 0.5 {
		return 0
	}
	return 1 - ratio
}

// termBonus rewards a column whose own name hints at the role.
func termBonus(role Role, col string) float64 {
	lower := strings.ToLower(col)
	for _, term := range nameTerms[role] {
		if strings.Contains(lower, term) {
			return nameBonus
		}
	}
	return 0
}

func setScore(scores map[Role]map[string]float64, role Role, col string, s float64) {
	if scores[role] == nil {
		scores[role] = make(map[string]float64)
	}
	scores[role][col] = s
}

// rolePriority breaks score ties deterministically.
func rolePriority(r Role) int {
	switch r {
	case RoleDate:
		return 0
	case RoleAmount:
		return 1
	case RoleDescription:
		return 2
	case RoleCategory:
		return 3
	default:
		return 4
	}
}

// rankLayouts orders layouts by hit count, most frequent first.
func rankLayouts(hits map[string]int) []string {
	layouts := make([]string, 0, len(hits))
	for layout := range hits {
		layouts = append(layouts, layout)
	}
	sort.Slice(layouts, func(i, j int) bool {
		if hits[layouts[i]] != hits[layouts[j]] {
			return hits[layouts[i]] > hits[layouts[j]]
		}
		return layouts[i] < layouts[j]
	})
	return layouts
}

// unclaimedByScore lists unclaimed columns ordered by the role's score.
func unclaimedByScore(columns []string, claimed map[string]bool, byCol map[string]float64) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		if !claimed[col] {
			out = append(out, col)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return byCol[out[i]] > byCol[out[j]]
	})
	return out
}
