package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/bank-cleaner/internal/config"
	"github.com/dvloznov/bank-cleaner/internal/googleauth"
	"github.com/dvloznov/bank-cleaner/internal/logger"
	"github.com/dvloznov/bank-cleaner/internal/pipeline"
	"github.com/dvloznov/bank-cleaner/internal/sheetsync"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "clean":
		runClean(log)
	case "login":
		runLogin(log)
	case "sheets":
		runSheets(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Bank Cleaner CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  clean     Clean a bank CSV export and publish the views")
	fmt.Println("  login     Authorize access to Google Sheets and Drive")
	fmt.Println("  sheets    List recently modified spreadsheets")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runClean(log zerolog.Logger) {
	fs := flag.NewFlagSet("clean", flag.ExitOnError)
	input := fs.String("input", "", "Path to the bank CSV export")
	outDir := fs.String("out", "output", "Directory for the cleaned CSV files")
	cfgPath := fs.String("config", "bank-cleaner.yaml", "Path to the config file")
	noSync := fs.Bool("no-sync", false, "Skip the Google Sheets sync, local files only")
	mode := fs.String("mode", "ask", "Write mode for existing sheets: ask, overwrite, or append")
	secretPath := fs.String("client-secret", googleauth.DefaultSecretPath, "Path to the OAuth client secret")
	tokenPath := fs.String("token", googleauth.DefaultTokenPath, "Path to the cached OAuth token")
	fs.Parse(os.Args[2:])

	if *input == "" {
		log.Fatal().Msg("Error: --input is required")
	}

	writeMode, err := parseMode(*mode)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid --mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	cfg := loadConfig(log, *cfgPath)

	opts := pipeline.Options{
		InputPath: *input,
		OutputDir: *outDir,
		Config:    cfg,
		Resolver:  pipeline.NewTerminalResolver(os.Stdin, os.Stdout),
		Mode:      writeMode,
	}

	if !*noSync {
		clientOpt, err := googleauth.ClientOption(ctx, *secretPath, *tokenPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Not authorized; run 'cli login' first")
		}
		store, err := sheetsync.NewGoogleStore(ctx, clientOpt)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Sheets client")
		}
		opts.Store = store
	}

	summary, err := pipeline.Run(ctx, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Cleaning run failed")
	}

	printSummary(summary)
	if summary.SyncErr != nil {
		os.Exit(1)
	}
}

func runLogin(log zerolog.Logger) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	secretPath := fs.String("client-secret", googleauth.DefaultSecretPath, "Path to the OAuth client secret")
	tokenPath := fs.String("token", googleauth.DefaultTokenPath, "Path to the cached OAuth token")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := googleauth.Login(ctx, *secretPath, *tokenPath, os.Stdin, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("Login failed")
	}
}

func runSheets(log zerolog.Logger) {
	fs := flag.NewFlagSet("sheets", flag.ExitOnError)
	limit := fs.Int64("limit", 10, "Number of spreadsheets to list")
	secretPath := fs.String("client-secret", googleauth.DefaultSecretPath, "Path to the OAuth client secret")
	tokenPath := fs.String("token", googleauth.DefaultTokenPath, "Path to the cached OAuth token")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	clientOpt, err := googleauth.ClientOption(ctx, *secretPath, *tokenPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Not authorized; run 'cli login' first")
	}
	store, err := sheetsync.NewGoogleStore(ctx, clientOpt)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Sheets client")
	}

	docs, err := store.ListRecent(ctx, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list spreadsheets")
	}

	for _, doc := range docs {
		fmt.Printf("%-44s  %s\n", doc.ID, doc.Title)
	}
}

// loadConfig reads the config file, falling back to defaults when the file
// does not exist. A file that exists but fails to parse is fatal.
func loadConfig(log zerolog.Logger, path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info().Str("path", path).Msg("No config file; using defaults")
			return config.Default()
		}
		log.Fatal().Err(err).Str("path", path).Msg("Failed to load config")
	}
	return cfg
}

func parseMode(s string) (sheetsync.WriteMode, error) {
	switch s {
	case "ask":
		return sheetsync.ModeAsk, nil
	case "overwrite":
		return sheetsync.ModeOverwrite, nil
	case "append":
		return sheetsync.ModeAppend, nil
	default:
		return sheetsync.ModeAsk, fmt.Errorf("unknown write mode %q", s)
	}
}

func printSummary(s *pipeline.Summary) {
	fmt.Printf("\nRun %s\n", s.RunID)
	fmt.Printf("  Input:         %s\n", s.Input)
	fmt.Printf("  Records:       %d\n", s.Records)
	if len(s.Rejected) > 0 {
		fmt.Printf("  Rejected rows: %d\n", len(s.Rejected))
		for _, rej := range s.Rejected {
			fmt.Printf("    - %v\n", &rej)
		}
	}
	if s.DateWarnings > 0 {
		fmt.Printf("  Date warnings: %d\n", s.DateWarnings)
	}
	fmt.Println("  Local files:")
	for _, f := range s.LocalFiles {
		fmt.Printf("    - %s\n", f)
	}
	if s.Sync != nil {
		if s.Sync.Created {
			fmt.Printf("  Created spreadsheet: %s\n", s.Sync.Document.URL)
		} else {
			fmt.Printf("  Updated spreadsheet: %s\n", s.Sync.Document.URL)
		}
		for _, res := range s.Sync.Results {
			if res.Err != nil {
				fmt.Printf("    - %-10s FAILED: %v\n", res.Title, res.Err)
			} else {
				fmt.Printf("    - %-10s %d rows (%s)\n", res.Title, res.Rows, res.Mode)
			}
		}
	}
	if s.SyncErr != nil {
		fmt.Printf("  Sync failed: %v\n", s.SyncErr)
	}
}
