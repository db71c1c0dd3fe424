package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/opsdeck/whmcs-import/internal/gcsuploader"
	"github.com/opsdeck/whmcs-import/internal/logger"
	"github.com/opsdeck/whmcs-import/internal/pipeline"
	"github.com/opsdeck/whmcs-import/internal/report"
)

func main() {
	// Optional .env so CI and local runs can share defaults.
	_ = godotenv.Load()

	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		runGenerate(log)
	case "upload":
		runUpload(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("WHMCS import draft generator")
	fmt.Println("\nUsage:")
	fmt.Println("  importdraft <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  generate  Build the import draft from the WHMCS exports")
	fmt.Println("  upload    Push generated artifacts to a GCS bucket")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'importdraft <command> -h' for more information on a command.")
}

func runGenerate(log zerolog.Logger) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)

	clients := fs.String("clients", "", "path to the clients export CSV (required)")
	transactions := fs.String("transactions", "", "path to the transactions export CSV (required)")
	invoices := fs.String("invoices", "", "path to the invoices export CSV (with -include-zero-invoices)")
	out := fs.String("out", "import_draft.csv", "primary output path")
	template := fs.String("template", "", "platform export template; its header line replaces the canonical headers")

	recordType := fs.String("type", "donation", "record type for every row")
	language := fs.String("language", "en", "language for every row")
	country := fs.String("country", "US", "country used when the client record has none")

	maxRows := fs.Int("max-rows", 10000, "maximum rows per output file; 0 disables chunking")
	includeZeroInvoices := fs.Bool("include-zero-invoices", false, "synthesize rows for zero-total invoices without a transaction")
	excludeAnonymous := fs.Bool("exclude-anonymous", true, "drop transactions belonging to the anonymous client id 0")
	failOnErrors := fs.Bool("fail-on-errors", false, "abort without primary output when any validation error is recorded")

	xlsx := fs.String("xlsx", "", "optional spreadsheet mirror path")
	maxReportRows := fs.Int("max-report-rows", 50, "rows shown in each Markdown report summary")

	aliases := fs.String("aliases", "", "optional YAML header-alias overrides")
	paymentRules := fs.String("payment-rules", "", "optional YAML payment keyword overrides")

	fs.Parse(os.Args[2:])

	if *clients == "" || *transactions == "" {
		log.Fatal().Msg("Error: -clients and -transactions are required")
	}
	if *includeZeroInvoices && *invoices == "" {
		log.Fatal().Msg("Error: -include-zero-invoices requires -invoices")
	}

	opts := pipeline.Options{
		ClientsPath:         *clients,
		TransactionsPath:    *transactions,
		InvoicesPath:        *invoices,
		TemplatePath:        *template,
		DefaultType:         *recordType,
		DefaultLanguage:     *language,
		DefaultCountry:      *country,
		IncludeZeroInvoices: *includeZeroInvoices,
		ExcludeAnonymous:    *excludeAnonymous,
		FailOnErrors:        *failOnErrors,
		AliasRulesPath:      *aliases,
		PaymentRulesPath:    *paymentRules,
		GeneratedAt:         civil.DateOf(time.Now()),
		RunID:               uuid.NewString(),
	}

	ctx := logger.WithContext(context.Background(), log)
	log.Info().Str("run_id", opts.RunID).Msg("Starting import draft generation")

	res, err := pipeline.Run(ctx, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Pipeline failed")
	}

	// Fail-fast: the error report is the only artifact, the primary output
	// is never produced, and the process exits non-zero.
	if opts.FailOnErrors && len(res.Errors) > 0 {
		if _, err := report.WriteValidationReport(*out, res.RunID, res.Errors, *maxReportRows); err != nil {
			log.Fatal().Err(err).Msg("Writing validation report failed")
		}
		log.Error().
			Int("validation_errors", len(res.Errors)).
			Msg("Validation errors recorded; aborting without primary output")
		os.Exit(1)
	}

	written, err := report.WriteTable(*out, res.Headers, res.Rows, *maxRows)
	if err != nil {
		log.Fatal().Err(err).Msg("Writing primary output failed")
	}

	if *xlsx != "" {
		if err := report.WriteSpreadsheet(*xlsx, res.Headers, res.Rows); err != nil {
			log.Fatal().Err(err).Msg("Writing spreadsheet mirror failed")
		}
		written = append(written, *xlsx)
	}

	reports := [][]string{}
	if paths, err := report.WriteValidationReport(*out, res.RunID, res.Errors, *maxReportRows); err != nil {
		log.Fatal().Err(err).Msg("Writing validation report failed")
	} else {
		reports = append(reports, paths)
	}
	if paths, err := report.WriteTransformReport(*out, report.CompanyDiffSuffix, res.RunID, res.CompanyDiffs, *maxReportRows); err != nil {
		log.Fatal().Err(err).Msg("Writing company-name transform report failed")
	} else {
		reports = append(reports, paths)
	}
	if paths, err := report.WriteTransformReport(*out, report.PersonDiffSuffix, res.RunID, res.PersonDiffs, *maxReportRows); err != nil {
		log.Fatal().Err(err).Msg("Writing person-name transform report failed")
	} else {
		reports = append(reports, paths)
	}
	for _, paths := range reports {
		written = append(written, paths...)
	}

	log.Info().
		Int("emitted", res.Stats.Emitted).
		Int("synthesized", res.Stats.Synthesized).
		Int("skipped_no_client", res.Stats.SkippedNoClient).
		Int("skipped_anonymous", res.Stats.SkippedAnonymous).
		Int("skipped_no_amount", res.Stats.SkippedNoAmount).
		Int("skipped_empty_name", res.Stats.SkippedEmptyName).
		Int("validation_errors", len(res.Errors)).
		Strs("artifacts", written).
		Msg("Generation completed")
	fmt.Printf("Wrote %d rows across %d artifact(s).\n", res.Stats.Emitted, len(written))
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucket := fs.String("bucket", "", "GCS bucket name (required)")
	prefix := fs.String("prefix", "", "object name prefix, e.g. the run date")
	fs.Parse(os.Args[2:])

	files := fs.Args()
	if *bucket == "" || len(files) == 0 {
		log.Fatal().Msg("Usage: importdraft upload -bucket NAME [-prefix P] FILE...")
	}

	ctx := logger.WithContext(context.Background(), log)
	log.Info().
		Str("bucket", *bucket).
		Str("prefix", *prefix).
		Int("files", len(files)).
		Msg("Uploading artifacts")

	if err := gcsuploader.UploadArtifacts(ctx, *bucket, *prefix, files); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %d file(s) to gs://%s/%s\n", len(files), *bucket, *prefix)
}
