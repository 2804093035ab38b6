package pipeline

import (
	"time"

	"github.com/flaboy/aira-catalog/pkg/catalog"
	"github.com/flaboy/aira-catalog/pkg/events"
	"github.com/flaboy/aira-catalog/pkg/journal"
	"github.com/flaboy/aira-catalog/pkg/sheet"
	"github.com/flaboy/aira-catalog/pkg/stripe"
)

type ExportOptions struct {
	Output string // path of the workbook to create
	Limit  int    // maximum records to export, <=0 means no limit
	DryRun bool
}

// Export walks the remote catalog page by page and writes one row per
// active product: code, name, description, first active price, first
// image (downloaded into the image directory). Output row order is the
// remote enumeration order. Stops early once the limit is reached, even
// mid-page. A dry run evaluates and logs every decision but writes no
// image and no workbook.
func Export(deps *Deps, opts ExportOptions) error {
	log := deps.Log
	jr := deps.journalFor(opts.DryRun)
	run := jr.Begin("export", opts.Output, opts.DryRun)

	log.Infow("starting export", "output", opts.Output, "limit", opts.Limit, "dry_run", opts.DryRun)

	table := sheet.New(catalog.AllColumns)
	count := 0
	cursor := ""

	for {
		pageSize := stripe.MaxPageSize
		if opts.Limit > 0 && opts.Limit-count < pageSize {
			pageSize = opts.Limit - count
		}

		products, hasMore, err := deps.Stripe.ListProducts(pageSize, cursor)
		if err != nil {
			jr.Finish(run, "failed", count, 0)
			return err
		}
		if len(products) == 0 {
			break
		}

		for i := range products {
			if opts.Limit > 0 && count >= opts.Limit {
				break
			}
			product := &products[i]

			row, err := exportOne(deps, product, opts.DryRun)
			if err != nil {
				jr.Finish(run, "failed", count, 0)
				return err
			}
			table.Append(row)
			jr.Record(run, &journal.SyncEntry{
				Row:             count + 2,
				Code:            row[catalog.ColumnCode],
				Action:          journal.ActionExported,
				StripeProductID: product.ID,
			})
			count++
		}

		if opts.Limit > 0 && count >= opts.Limit {
			break
		}
		if !hasMore {
			break
		}
		cursor = products[len(products)-1].ID
	}

	if opts.DryRun {
		log.Infow("dry run, not writing workbook", "output", opts.Output, "records", count)
	} else {
		if err := table.Save(opts.Output); err != nil {
			jr.Finish(run, "failed", count, 0)
			return err
		}
	}

	jr.Finish(run, "completed", count, 0)
	events.EmitRunCompleted(&events.RunCompletedEvent{
		Direction: "export",
		Table:     opts.Output,
		Records:   count,
		DryRun:    opts.DryRun,
		CreatedAt: time.Now(),
	})
	log.Infow("export finished", "records", count)
	return nil
}

// exportOne resolves price and image for one product and returns the
// sheet row. Products without an active price keep an empty PRICE cell;
// products without images skip the download step.
func exportOne(deps *Deps, product *stripe.Product, dryRun bool) (map[string]string, error) {
	log := deps.Log
	code := product.Metadata["code"]

	// 远程id列留空，只有导入流水线会回填
	row := map[string]string{
		catalog.ColumnCode:        code,
		catalog.ColumnName:        product.Name,
		catalog.ColumnDescription: product.Description,
	}

	prices, err := deps.Stripe.ListActivePrices(product.ID)
	if err != nil {
		return nil, err
	}
	if len(prices) > 0 {
		row[catalog.ColumnPrice] = catalog.MajorUnits(prices[0].UnitAmount).String()
	} else {
		log.Warnw("product has no active price", "product", product.ID, "code", code)
	}

	if len(product.Images) == 0 {
		log.Warnw("product has no image", "product", product.ID, "code", code)
		return row, nil
	}

	imageURL := product.Images[0]
	if dryRun {
		log.Infow("would download image",
			"url", imageURL,
			"file", catalog.ImageBaseName(code)+"."+catalog.ImageExtension(imageURL))
		return row, nil
	}

	filename, err := deps.Assets.Download(imageURL, code)
	if err != nil {
		return nil, err
	}
	row[catalog.ColumnImage] = filename
	log.Infow("downloaded image", "file", filename, "code", code)
	return row, nil
}
