// Package pipeline runs one end-to-end cleaning pass: read the export, infer
// the schema, build canonical records, project views, write local files, and
// optionally publish to Google Sheets.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dvloznov/bank-cleaner/internal/categorize"
	"github.com/dvloznov/bank-cleaner/internal/config"
	"github.com/dvloznov/bank-cleaner/internal/localcsv"
	"github.com/dvloznov/bank-cleaner/internal/logger"
	"github.com/dvloznov/bank-cleaner/internal/records"
	"github.com/dvloznov/bank-cleaner/internal/schema"
	"github.com/dvloznov/bank-cleaner/internal/sheetsync"
	"github.com/dvloznov/bank-cleaner/internal/views"
)

// Options configures one cleaning run.
type Options struct {
	InputPath string
	OutputDir string
	Config    *config.Config
	Resolver  Resolver

	// Store publishes the views remotely; nil keeps the run local-only.
	Store sheetsync.Store
	Mode  sheetsync.WriteMode
}

// Summary reports what one run did. Rejections and warnings are carried here
// so the caller can print them; nothing about a bad row is silently dropped.
type Summary struct {
	RunID        string
	Input        string
	Roles        schema.RoleMap
	Records      int
	Rejected     []records.RowError
	DateWarnings int
	LocalFiles   []string

	// Sync is nil when no store was configured. SyncErr is non-nil when the
	// remote publish failed; local files are still written in that case.
	Sync    *sheetsync.Report
	SyncErr error
}

// Run executes one cleaning pass over a CSV export.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	log := logger.FromContext(ctx)
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	cfg := opts.Config

	summary := &Summary{RunID: uuid.NewString(), Input: opts.InputPath}
	log.Info().Str("run_id", summary.RunID).Str("input", opts.InputPath).Msg("Starting cleaning run")

	// 1. Read the raw export.
	table, err := localcsv.ReadTable(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	log.Info().Int("columns", len(table.Columns)).Int("rows", len(table.Rows)).Msg("Read input table")

	// 2. Infer column roles from a value sample.
	inferred := schema.Infer(table, schema.Options{
		SampleSize: cfg.Inference.SampleSize,
		Threshold:  cfg.Inference.Threshold,
		Symbols:    cfg.Parsing.CurrencySymbols,
	})
	for role, col := range inferred.Roles {
		log.Info().
			Str("role", string(role)).
			Str("column", col).
			Float64("confidence", inferred.Confidence[role]).
			Msg("Inferred column role")
	}

	// 3. Resolve what inference could not, then check the required roles.
	if err := resolveRoles(&inferred, opts.Resolver); err != nil {
		return nil, err
	}
	summary.Roles = inferred.Roles

	// 4. Build the canonical record set.
	builder := &records.Builder{
		Roles:       inferred.Roles,
		DateLayouts: inferred.DateLayouts,
		Symbols:     cfg.Parsing.CurrencySymbols,
		YearPivot:   cfg.Parsing.YearPivot,
		Categorizer: categorize.NewEngine(cfg.RuleSet()),
	}
	built, err := builder.Build(table)
	if err != nil {
		return nil, fmt.Errorf("building records: %w", err)
	}
	summary.Records = len(built.Records)
	summary.Rejected = built.Rejected
	summary.DateWarnings = built.DateWarnings
	for _, rej := range built.Rejected {
		log.Warn().Int("row", rej.Row).Str("value", rej.Value).Err(rej.Err).Msg("Rejected input row")
	}
	log.Info().
		Int("records", len(built.Records)).
		Int("rejected", len(built.Rejected)).
		Int("date_warnings", built.DateWarnings).
		Msg("Built canonical records")

	// 5. Project the views.
	vs := views.Project(built.Records, cfg.Merchants)

	// 6. Write the local CSV files. These always exist, synced or not.
	masterTitle := masterViewTitle(vs)
	for _, v := range vs {
		if v.Name != views.MasterName && len(v.Records) == 0 {
			continue
		}
		path, err := localcsv.WriteView(opts.OutputDir, v, masterTitle)
		if err != nil {
			return nil, fmt.Errorf("writing local output: %w", err)
		}
		summary.LocalFiles = append(summary.LocalFiles, path)
	}
	log.Info().Int("files", len(summary.LocalFiles)).Str("dir", opts.OutputDir).Msg("Wrote local output")

	// 7. Publish to Google Sheets when a store is configured. A sync failure
	// is reported, not fatal: the local files above already hold the result.
	if opts.Store != nil {
		target := sheetsync.Target{
			ID:    cfg.Spreadsheet.ID,
			Name:  cfg.Spreadsheet.Name,
			Title: cfg.Spreadsheet.Title,
		}
		syncOpts := sheetsync.Options{Mode: opts.Mode}
		if opts.Resolver != nil {
			syncOpts.Confirm = opts.Resolver.ConfirmWrite
		}
		report, err := sheetsync.Sync(ctx, opts.Store, target, vs, syncOpts)
		summary.Sync = report
		summary.SyncErr = err
		if err != nil {
			log.Error().Err(err).Msg("Sheet sync failed; local output is still available")
		}
	}

	log.Info().Str("run_id", summary.RunID).Msg("Cleaning run finished")
	return summary, nil
}

// resolveRoles routes unresolved roles through the resolver and verifies the
// run can proceed. Date and amount are required; a run without them has no
// meaningful output.
func resolveRoles(res *schema.Result, r Resolver) error {
	claimed := make(map[string]schema.Role, len(res.Roles))
	for role, col := range res.Roles {
		claimed[col] = role
	}

	candidates := make(map[schema.Role][]string, len(res.Unresolved))
	for _, req := range res.Unresolved {
		candidates[req.Role] = req.Candidates
		if r == nil || len(req.Candidates) == 0 {
			continue
		}
		col, err := r.ResolveRole(req)
		if err != nil {
			return fmt.Errorf("resolving %s column: %w", req.Role, err)
		}
		if col == "" {
			continue
		}
		// A column serves at most one role; a conflicting answer is an
		// error, not a silent reassignment.
		if prev, ok := claimed[col]; ok {
			return fmt.Errorf("resolving %s column: %q is already the %s column", req.Role, col, prev)
		}
		res.Roles[req.Role] = col
		claimed[col] = req.Role
	}

	for _, role := range []schema.Role{schema.RoleDate, schema.RoleAmount} {
		if res.Roles[role] == "" {
			return &schema.AmbiguousError{Role: role, Candidates: candidates[role]}
		}
	}
	return nil
}

func masterViewTitle(vs []views.View) string {
	for _, v := range vs {
		if v.Name == views.MasterName {
			return v.Title
		}
	}
	return "Master"
}
