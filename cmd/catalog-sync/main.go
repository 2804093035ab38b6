// Command catalog-sync keeps an XLSX product catalog and the Stripe
// catalog in sync.
//
//	catalog-sync export -out catalog.xlsx -limit 150 [-dry-run]
//	catalog-sync import -in catalog.xlsx [-out synced.xlsx] [-dry-run]
//
// Configuration comes from catalog-sync.yaml or CATALOG_* environment
// variables; CATALOG_STRIPE_SECRET_KEY is required.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/flaboy/aira-catalog/pkg/assets"
	"github.com/flaboy/aira-catalog/pkg/config"
	"github.com/flaboy/aira-catalog/pkg/events"
	"github.com/flaboy/aira-catalog/pkg/journal"
	"github.com/flaboy/aira-catalog/pkg/pipeline"
	"github.com/flaboy/aira-catalog/pkg/stripe"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "catalog-sync:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: catalog-sync <export|import> [flags]")
	}

	switch args[0] {
	case "export":
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		out := fs.String("out", "catalog.xlsx", "path of the workbook to create")
		limit := fs.Int("limit", 0, "maximum records to export, 0 means all")
		dryRun := fs.Bool("dry-run", false, "evaluate and log decisions without writing anything")
		fs.Parse(args[1:])

		deps, log, err := buildDeps(*dryRun)
		if err != nil {
			return err
		}
		defer log.Sync()
		return pipeline.Export(deps, pipeline.ExportOptions{
			Output: *out,
			Limit:  *limit,
			DryRun: *dryRun,
		})

	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		in := fs.String("in", "catalog.xlsx", "path of the workbook to read")
		out := fs.String("out", "", "output workbook path, default overwrites the input")
		dryRun := fs.Bool("dry-run", false, "evaluate and log decisions without writing anything")
		fs.Parse(args[1:])

		deps, log, err := buildDeps(*dryRun)
		if err != nil {
			return err
		}
		defer log.Sync()
		return pipeline.Import(deps, pipeline.ImportOptions{
			Input:  *in,
			Output: *out,
			DryRun: *dryRun,
		})

	default:
		return fmt.Errorf("unknown command %q, expected export or import", args[0])
	}
}

func buildDeps(dryRun bool) (*pipeline.Deps, *zap.SugaredLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	client := stripe.NewClient(cfg.Stripe.SecretKey)
	client.APIBase = cfg.Stripe.APIBase
	client.FilesBase = cfg.Stripe.FilesBase

	if !dryRun {
		if err := os.MkdirAll(cfg.Catalog.ImageDir, 0o755); err != nil {
			return nil, nil, err
		}
	}

	var jr *journal.Journal
	if cfg.Catalog.JournalPath != "" && !dryRun {
		jr, err = journal.Open(cfg.Catalog.JournalPath)
		if err != nil {
			return nil, nil, err
		}
	}

	// 事件通知只在真实运行时启用
	if cfg.SQS.Enabled && cfg.SQS.QueueURL != "" && !dryRun {
		handler, err := events.NewSQSHandler()
		if err != nil {
			return nil, nil, err
		}
		events.SetEventHandler(handler)
	}

	return &pipeline.Deps{
		Stripe:   client,
		Assets:   assets.NewStore(cfg.Catalog.ImageDir, client),
		Journal:  jr,
		Log:      log,
		Currency: cfg.Catalog.Currency,
	}, log, nil
}

func buildLogger(level string) (*zap.SugaredLogger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = "console"
	if level != "" {
		parsed, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		zapCfg.Level = parsed
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
