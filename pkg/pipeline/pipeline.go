package pipeline

import (
	"go.uber.org/zap"

	"github.com/flaboy/aira-catalog/pkg/assets"
	"github.com/flaboy/aira-catalog/pkg/journal"
	"github.com/flaboy/aira-catalog/pkg/stripe"
)

// Deps are the collaborators a pipeline run needs. Constructed explicitly
// by the caller so tests can substitute doubles.
type Deps struct {
	Stripe  *stripe.Client
	Assets  *assets.Store
	Journal *journal.Journal // nil disables journaling
	Log     *zap.SugaredLogger
	// Currency of the PRICE column, used for created prices.
	Currency string
}

func (d *Deps) currency() string {
	if d.Currency == "" {
		return "usd"
	}
	return d.Currency
}

// journalFor honors the dry-run invariant: a dry run writes nothing,
// the journal included.
func (d *Deps) journalFor(dryRun bool) *journal.Journal {
	if dryRun {
		return nil
	}
	return d.Journal
}
