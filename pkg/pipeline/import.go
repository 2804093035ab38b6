package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/flaboy/aira-catalog/pkg/catalog"
	"github.com/flaboy/aira-catalog/pkg/errors"
	"github.com/flaboy/aira-catalog/pkg/events"
	"github.com/flaboy/aira-catalog/pkg/journal"
	"github.com/flaboy/aira-catalog/pkg/sheet"
	"github.com/flaboy/aira-catalog/pkg/stripe"
)

type ImportOptions struct {
	Input  string
	Output string // empty means overwrite Input
	DryRun bool
}

// Import reads the workbook and creates a product + price pair on the
// remote side for every row that is valid, carries an image reference
// and is not yet reconciled. The Stripe ids are written back into the
// row; the whole table is persisted once at the end.
//
// Skipped with a warning, never aborting: invalid rows, rows without an
// image reference, reconciled rows. Any image-publication or remote
// failure aborts the whole run; a partial catalog is worse than a
// clearly failed run, and prior successful rows are already durable on
// the remote side and will be skipped on the rerun via the ledger.
func Import(deps *Deps, opts ImportOptions) error {
	log := deps.Log
	output := opts.Output
	if output == "" {
		output = opts.Input
	}

	if fi, err := os.Stat(deps.Assets.Dir); err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: %s", errors.ErrImageDirMissing, deps.Assets.Dir)
	}

	table, err := sheet.Open(opts.Input)
	if err != nil {
		return err
	}
	// 缺失列一次性全部报出
	if err := table.RequireColumns(catalog.RequiredColumns...); err != nil {
		return err
	}
	table.EnsureColumns(catalog.LedgerColumns...)

	jr := deps.journalFor(opts.DryRun)
	run := jr.Begin("import", opts.Input, opts.DryRun)

	log.Infow("starting import",
		"input", opts.Input, "output", output,
		"rows", table.Len(), "dry_run", opts.DryRun)

	created := 0
	skipped := 0

	for i := 0; i < table.Len(); i++ {
		rowNum := table.RowNumber(i)

		record, err := catalog.ParseRecord(table.Cells(i), rowNum, deps.Assets.Dir)
		if err != nil {
			log.Warnw("skipping invalid row", "row", rowNum, "reason", err.Error())
			jr.Record(run, &journal.SyncEntry{
				Row: rowNum, Action: journal.ActionSkippedValidation, Detail: err.Error(),
			})
			skipped++
			continue
		}

		if record.Reconciled() {
			log.Warnw("skipping reconciled row",
				"row", rowNum, "code", record.Code,
				"stripe_product_id", record.StripeProductID)
			jr.Record(run, &journal.SyncEntry{
				Row: rowNum, Code: record.Code, Action: journal.ActionSkippedReconciled,
				StripeProductID: record.StripeProductID,
				StripePriceID:   record.StripePriceID,
			})
			skipped++
			continue
		}

		if record.Image == "" {
			log.Warnw("skipping row without image reference", "row", rowNum, "code", record.Code)
			jr.Record(run, &journal.SyncEntry{
				Row: rowNum, Code: record.Code, Action: journal.ActionSkippedNoImage,
			})
			skipped++
			continue
		}

		if opts.DryRun {
			log.Infow("would create product and price",
				"row", rowNum, "code", record.Code,
				"name", record.Name, "unit_amount", record.UnitAmount(),
				"image", record.Image)
			created++
			continue
		}

		product, price, err := importOne(deps, record)
		if err != nil {
			jr.Finish(run, "failed", created, skipped)
			return err
		}

		table.Set(i, catalog.ColumnProductID, product.ID)
		table.Set(i, catalog.ColumnPriceID, price.ID)

		jr.Record(run, &journal.SyncEntry{
			Row: rowNum, Code: record.Code, Action: journal.ActionCreated,
			StripeProductID: product.ID,
			StripePriceID:   price.ID,
		})
		events.EmitProductPublished(&events.ProductPublishedEvent{
			Code:            record.Code,
			StripeProductID: product.ID,
			StripePriceID:   price.ID,
			UnitAmount:      price.UnitAmount,
			Currency:        price.Currency,
			Row:             rowNum,
			CreatedAt:       time.Now(),
		})
		created++
	}

	if opts.DryRun {
		log.Infow("dry run, not writing workbook", "output", output, "would_create", created, "skipped", skipped)
	} else {
		if err := table.Save(output); err != nil {
			jr.Finish(run, "failed", created, skipped)
			return errors.Wrap(errors.StructureError, err, "write workbook "+output)
		}
	}

	jr.Finish(run, "completed", created, skipped)
	events.EmitRunCompleted(&events.RunCompletedEvent{
		Direction: "import",
		Table:     opts.Input,
		Records:   created,
		Skipped:   skipped,
		DryRun:    opts.DryRun,
		CreatedAt: time.Now(),
	})
	log.Infow("import finished", "created", created, "skipped", skipped)
	return nil
}

// importOne publishes the row's image and creates the remote pair. The
// image URL must be publicly resolvable before product creation, hence
// upload + file link first.
func importOne(deps *Deps, record *catalog.Record) (*stripe.Product, *stripe.Price, error) {
	log := deps.Log

	imageURL, err := deps.Assets.Publish(record.Image)
	if err != nil {
		return nil, nil, err
	}
	log.Infow("published image", "row", record.Row, "code", record.Code, "url", imageURL)

	product, err := deps.Stripe.CreateProduct(&stripe.ProductParams{
		Name:        record.Name,
		Description: record.Description,
		Code:        record.Code,
		ImageURL:    imageURL,
	})
	if err != nil {
		return nil, nil, err
	}

	// nickname携带外部编码，方便在Stripe后台对照
	price, err := deps.Stripe.CreatePrice(product.ID, record.UnitAmount(), deps.currency(), record.Code)
	if err != nil {
		return nil, nil, err
	}

	log.Infow("created product and price",
		"row", record.Row, "code", record.Code,
		"stripe_product_id", product.ID, "stripe_price_id", price.ID)
	return product, price, nil
}
