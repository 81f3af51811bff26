package sheetsync

import (
	"context"
	"fmt"

	"github.com/dvloznov/bank-cleaner/internal/logger"
	"github.com/dvloznov/bank-cleaner/internal/views"
)

// Options controls one sync run.
type Options struct {
	// Mode is the write mode applied to every sheet.
	Mode WriteMode

	// Confirm decides overwrite-or-append for one sheet when Mode is ModeAsk
	// and the sheet already holds data. Nil defaults to overwrite.
	Confirm func(sheetTitle string, existingRows int64) (WriteMode, error)
}

// Sync publishes the views to the target document. The document is resolved
// (or created when the target names nothing), then each view becomes one
// sheet: master first, then the filtered views with Source formulas pointing
// back at the master sheet. A failure on one view is recorded and the rest
// still sync; only resolution and creation failures abort the run.
func Sync(ctx context.Context, store Store, target Target, vs []views.View, opts Options) (*Report, error) {
	log := logger.FromContext(ctx)

	// 1. Resolve the target document, creating only when nothing was named.
	ref, err := store.Locate(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target document: %w", err)
	}
	report := &Report{}
	if ref == nil {
		ref, err = store.Create(ctx, target.Title)
		if err != nil {
			return nil, fmt.Errorf("failed to create spreadsheet: %w", err)
		}
		report.Created = true
		log.Info().Str("document_id", ref.ID).Str("title", ref.Title).Msg("Created spreadsheet")
	} else {
		log.Info().Str("document_id", ref.ID).Str("title", ref.Title).Msg("Resolved spreadsheet")
	}
	report.Document = *ref

	// 2. Inventory existing sheets once; write decisions depend on it.
	existing, err := store.ListSheets(ctx, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}

	masterTitle := masterSheetTitle(vs)

	// 3. Sync each view to its sheet.
	for _, v := range vs {
		if v.Name != views.MasterName && len(v.Records) == 0 {
			log.Info().Str("view", v.Name).Msg("Skipping empty view")
			continue
		}

		res := syncView(ctx, store, ref.ID, v, masterTitle, existing, opts)
		if res.Err != nil {
			log.Warn().
				Err(res.Err).
				Str("view", v.Name).
				Str("sheet", v.Title).
				Msg("Failed to sync view")
		} else {
			log.Info().
				Str("view", v.Name).
				Str("sheet", v.Title).
				Int("rows", res.Rows).
				Str("mode", res.Mode.String()).
				Msg("Synced view")
		}
		report.Results = append(report.Results, res)
	}

	return report, nil
}

// syncView writes one view to its sheet and applies formatting.
func syncView(ctx context.Context, store Store, docID string, v views.View, masterTitle string, existing map[string]SheetInfo, opts Options) ViewResult {
	res := ViewResult{Name: v.Name, Title: v.Title}

	mode := opts.Mode
	if mode == ModeAsk {
		mode = ModeOverwrite
		if info, ok := existing[v.Title]; ok && info.DataRows > 0 && opts.Confirm != nil {
			chosen, err := opts.Confirm(v.Title, info.DataRows)
			if err != nil {
				res.Step = "confirm"
				res.Err = fmt.Errorf("confirming write mode: %w", err)
				return res
			}
			mode = chosen
		}
	}
	res.Mode = mode

	header := v.Header()
	info, err := store.EnsureSheet(ctx, docID, v.Title, header)
	if err != nil {
		res.Step = "ensure"
		res.Err = fmt.Errorf("ensuring sheet: %w", err)
		return res
	}

	rows := v.Rows(func(masterRow int) string {
		// +1 skips the master sheet's header row.
		return fmt.Sprintf("=%s!A%d", masterTitle, masterRow+1)
	})
	res.Rows = len(rows)

	if err := store.WriteRows(ctx, docID, v.Title, rows, mode); err != nil {
		res.Step = "write"
		res.Err = fmt.Errorf("writing rows: %w", err)
		return res
	}

	rules := FormatRules{
		FreezeHeader:    true,
		BoldHeader:      true,
		DateColumns:     []int{0},
		CurrencyColumns: []int{1},
		ColumnCount:     len(header),
	}
	if err := store.ApplyFormatting(ctx, docID, info.SheetID, rules); err != nil {
		res.Step = "format"
		res.Err = fmt.Errorf("applying formatting: %w", err)
		return res
	}

	return res
}

func masterSheetTitle(vs []views.View) string {
	for _, v := range vs {
		if v.Name == views.MasterName {
			return v.Title
		}
	}
	return "Master"
}
