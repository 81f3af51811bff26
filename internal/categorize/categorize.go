// Package categorize assigns a category label to a normalized transaction
// based on its details text and amount sign.
//
// The engine is an ordered rule list and the first matching rule wins, so
// rule order is part of the contract: reordering rules changes output and is
// a behavior change, not a refactor.
package categorize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Sign values restrict a rule to one flow direction.
const (
	SignAny    = ""
	SignCredit = "credit" // amount > 0
	SignDebit  = "debit"  // amount < 0
)

// FallbackLabel is assigned when no rule matches. It is advisory, never
// structural: a default label is acceptable where a default amount is not.
const FallbackLabel = "Uncategorized"

// Rule matches on details keywords and amount sign. Empty Keywords means the
// sign alone decides; SignAny means the keywords alone decide. Keyword
// matching is case-insensitive substring containment.
type Rule struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords,omitempty"`
	Sign     string   `yaml:"sign,omitempty"`
}

// Merchant defines one named-merchant categorization rule and the filtered
// view derived from it.
type Merchant struct {
	Label   string `yaml:"label"`
	Pattern string `yaml:"pattern"`
}

// matches reports whether the rule applies. details must already be
// lowercased.
func (r Rule) matches(details string, amount decimal.Decimal) bool {
	switch r.Sign {
	case SignCredit:
		if amount.Sign() <= 0 {
			return false
		}
	case SignDebit:
		if amount.Sign() >= 0 {
			return false
		}
	}
	if len(r.Keywords) == 0 {
		return true
	}
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(details, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Engine evaluates an ordered rule list.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine over the given rules, evaluated in order.
func NewEngine(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Categorize returns the label of the first matching rule, or FallbackLabel.
// Deterministic: the result depends only on details and amount.
func (e *Engine) Categorize(details string, amount decimal.Decimal) string {
	lower := strings.ToLower(details)
	for _, r := range e.rules {
		if r.matches(lower, amount) {
			return r.Label
		}
	}
	return FallbackLabel
}

// DefaultMerchants returns the built-in merchant list.
func DefaultMerchants() []Merchant {
	return []Merchant{{Label: "eBay", Pattern: "ebay"}}
}

// DefaultRules builds the standard rule list for the given merchants:
// merchant rules first, then debit-only keyword categories, then the plain
// sign fallbacks. The keyword rules are restricted to debits so that every
// positive non-merchant amount lands in Income.
func DefaultRules(merchants []Merchant) []Rule {
	rules := make([]Rule, 0, len(merchants)+7)
	for _, m := range merchants {
		rules = append(rules, Rule{Label: m.Label, Keywords: []string{m.Pattern}})
	}
	rules = append(rules,
		Rule{Label: "Grocery", Sign: SignDebit, Keywords: []string{"grocery", "supermarket", "walmart", "target"}},
		Rule{Label: "Gas", Sign: SignDebit, Keywords: []string{"fuel", "petrol", "shell", "chevron"}},
		Rule{Label: "Utilities", Sign: SignDebit, Keywords: []string{"electric", "water", "internet", "phone"}},
		Rule{Label: "Dining", Sign: SignDebit, Keywords: []string{"restaurant", "cafe", "pizza", "mcdonald", "starbucks"}},
		Rule{Label: "Shopping", Sign: SignDebit, Keywords: []string{"amazon", "retail"}},
		Rule{Label: "Income", Sign: SignCredit},
		Rule{Label: "Expense", Sign: SignDebit},
	)
	return rules
}
