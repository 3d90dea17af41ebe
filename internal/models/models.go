// Package models defines shared domain models.
package models

import "time"

// Scenario is a named, persisted set of pricing parameters. It captures
// everything the UI sliders control for a single evaluation.
type Scenario struct {
	Name              string    `json:"name"`
	Spot              float64   `json:"spot"`
	Strike            float64   `json:"strike"`
	Rate              float64   `json:"rate"`
	TimeToExpiry      float64   `json:"time_to_expiry"`
	Volatility        float64   `json:"volatility"`
	CallPurchasePrice float64   `json:"call_purchase_price"`
	PutPurchasePrice  float64   `json:"put_purchase_price"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Evaluation is one priced snapshot of a scenario, kept as history.
type Evaluation struct {
	ID        int64     `json:"id"`
	Scenario  string    `json:"scenario"`
	Timestamp time.Time `json:"timestamp"`
	CallPrice float64   `json:"call_price"`
	PutPrice  float64   `json:"put_price"`
	CallPnL   float64   `json:"call_pnl"`
	PutPnL    float64   `json:"put_pnl"`
}
