// Package views derives named, ordered projections of the canonical record
// set. Views share records by reference; membership depends only on each
// record's amount and category, never on construction order.
package views

import (
	"strings"

	"github.com/dvloznov/bank-cleaner/internal/categorize"
	"github.com/dvloznov/bank-cleaner/internal/records"
)

// Well-known view names.
const (
	MasterName     = "master"
	IncomingName   = "incoming"
	OutgoingName   = "outgoing"
	MerchantPrefix = "merchant:"
)

// View is a named, ordered subsequence of the canonical record set.
type View struct {
	// Name is the stable view key (master, incoming, outgoing,
	// merchant:<name>).
	Name string

	// Title is the human-facing name used for remote sheets and local files.
	Title string

	// Records point into the master sequence; they are never copied.
	Records []*records.CanonicalRecord

	// Linked views carry a Source back-reference to the master sheet.
	Linked bool
}

// MerchantViewName returns the view key for a merchant label.
func MerchantViewName(label string) string {
	return MerchantPrefix + strings.ToLower(label)
}

// Project derives the standard views from the full canonical sequence:
// master (everything), incoming (amount > 0), outgoing (amount < 0), and one
// view per merchant (category equals the merchant label). Zero-amount
// records appear in master only. Relative order is master-row order in every
// view.
func Project(recs []*records.CanonicalRecord, merchants []categorize.Merchant) []View {
	out := make([]View, 0, 3+len(merchants))

	out = append(out, View{
		Name:    MasterName,
		Title:   "Master",
		Records: recs,
	})

	incoming := View{Name: IncomingName, Title: "Incoming", Linked: true}
	outgoing := View{Name: OutgoingName, Title: "Outgoing", Linked: true}
	for _, r := range recs {
		switch r.Amount.Sign() {
		case 1:
			incoming.Records = append(incoming.Records, r)
		case -1:
			outgoing.Records = append(outgoing.Records, r)
		}
	}
	out = append(out, incoming, outgoing)

	for _, m := range merchants {
		v := View{Name: MerchantViewName(m.Label), Title: m.Label, Linked: true}
		for _, r := range recs {
			if r.Category == m.Label {
				v.Records = append(v.Records, r)
			}
		}
		out = append(out, v)
	}

	return out
}

// Header returns the canonical header row for the view. Linked views carry
// the extra Source column referencing the master sheet.
func (v View) Header() []string {
	h := []string{"Date", "Amount", "Details", "Category"}
	if v.Linked {
		h = append(h, "Source")
	}
	return h
}

// Rows renders the view's records in master-row order. For linked views,
// sourceRef builds the Source cell from a record's master row; how the
// back-reference is rendered (live formula or plain text) is the caller's
// choice, the master-row join itself is the guarantee.
func (v View) Rows(sourceRef func(masterRow int) string) [][]string {
	rows := make([][]string, 0, len(v.Records))
	for _, r := range v.Records {
		date := ""
		if r.Date != nil {
			date = r.Date.String()
		}
		row := []string{date, r.Amount.String(), r.Details, r.Category}
		if v.Linked && sourceRef != nil {
			row = append(row, sourceRef(r.MasterRow))
		}
		rows = append(rows, row)
	}
	return rows
}
