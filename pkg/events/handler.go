package events

import "time"

// ProductPublishedEvent fires after both remote creations of a row
// succeeded and the ids were written back.
type ProductPublishedEvent struct {
	Code            string    `json:"code"`
	StripeProductID string    `json:"stripe_product_id"`
	StripePriceID   string    `json:"stripe_price_id"`
	UnitAmount      int64     `json:"unit_amount"`
	Currency        string    `json:"currency"`
	Row             int       `json:"row"`
	CreatedAt       time.Time `json:"created_at"`
}

// RunCompletedEvent fires once per finished pipeline run.
type RunCompletedEvent struct {
	Direction string    `json:"direction"` // export | import
	Table     string    `json:"table"`
	Records   int       `json:"records"`
	Skipped   int       `json:"skipped"`
	DryRun    bool      `json:"dry_run"`
	CreatedAt time.Time `json:"created_at"`
}

type EventHandler interface {
	OnProductPublished(event *ProductPublishedEvent) error
	OnRunCompleted(event *RunCompletedEvent) error
}

var handler EventHandler

func SetEventHandler(h EventHandler) {
	handler = h
}

func EmitProductPublished(event *ProductPublishedEvent) error {
	if handler != nil {
		return handler.OnProductPublished(event)
	}
	return nil
}

func EmitRunCompleted(event *RunCompletedEvent) error {
	if handler != nil {
		return handler.OnRunCompleted(event)
	}
	return nil
}
