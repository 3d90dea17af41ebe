// Package grid evaluates Black-Scholes prices over a two-dimensional
// spot/volatility plane, for heatmap rendering and CSV export.
package grid

import (
	"optionheat/internal/errors"
	"optionheat/internal/pricing"
)

// Mode selects what is written into each grid cell.
type Mode string

const (
	// ModeFairValue writes the theoretical price.
	ModeFairValue Mode = "fair_value"
	// ModePnL writes price minus the purchase price for that side.
	ModePnL Mode = "pnl"
)

// Request fixes the strike, rate and time, and spans spot and volatility
// ranges at the given per-axis resolution. The whole value is the cache
// key: two Requests are equivalent exactly when all fields are equal.
type Request struct {
	Strike       float64
	Rate         float64
	TimeToExpiry float64

	SpotMin float64
	SpotMax float64
	VolMin  float64
	VolMax  float64

	// Resolution is the point count per axis, endpoints included.
	Resolution int

	Mode         Mode
	CallPurchase float64
	PutPurchase  float64
}

// Result holds one matrix per option side. Rows are indexed by the
// volatility axis and columns by the spot axis.
type Result struct {
	Call [][]float64
	Put  [][]float64

	SpotAxis []float64
	VolAxis  []float64
}

// Validate checks the axis ranges and fixed parameters before any
// pricing work is done.
func (r Request) Validate() error {
	switch {
	case r.Resolution < 2:
		return errors.NewValidationError("resolution", r.Resolution, "must be at least 2")
	case r.Strike <= 0:
		return errors.NewValidationError("strike", r.Strike, "must be positive")
	case r.TimeToExpiry < 0:
		return errors.NewValidationError("time_to_expiry", r.TimeToExpiry, "must be non-negative")
	case r.SpotMin <= 0:
		return errors.NewValidationError("spot_min", r.SpotMin, "must be positive")
	case r.SpotMin >= r.SpotMax:
		return errors.NewValidationError("spot_max", r.SpotMax, "must be greater than spot_min")
	case r.VolMin < 0:
		return errors.NewValidationError("vol_min", r.VolMin, "must be non-negative")
	case r.VolMin >= r.VolMax:
		return errors.NewValidationError("vol_max", r.VolMax, "must be greater than vol_min")
	}
	switch r.Mode {
	case ModeFairValue, ModePnL:
	default:
		return errors.NewValidationError("mode", r.Mode, "must be fair_value or pnl")
	}
	return nil
}

// Linspace returns n evenly spaced values from min to max, both endpoints
// included. n must be at least 2.
func Linspace(min, max float64, n int) []float64 {
	vals := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range vals {
		vals[i] = min + float64(i)*step
	}
	vals[n-1] = max // exact endpoint regardless of rounding
	return vals
}

// Compute evaluates the full grid. It is pure: same Request, same output.
func Compute(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	spots := Linspace(req.SpotMin, req.SpotMax, req.Resolution)
	vols := Linspace(req.VolMin, req.VolMax, req.Resolution)

	res := &Result{
		Call:     make([][]float64, len(vols)),
		Put:      make([][]float64, len(vols)),
		SpotAxis: spots,
		VolAxis:  vols,
	}

	params := pricing.Params{
		Strike:       req.Strike,
		Rate:         req.Rate,
		TimeToExpiry: req.TimeToExpiry,
	}
	for i, vol := range vols {
		callRow := make([]float64, len(spots))
		putRow := make([]float64, len(spots))
		params.Volatility = vol
		for j, spot := range spots {
			params.Spot = spot
			call, put, err := pricing.Evaluate(params)
			if err != nil {
				// Validate() guarantees valid axis values, so this is a bug.
				return nil, err
			}
			if req.Mode == ModePnL {
				callRow[j] = call.Price - req.CallPurchase
				putRow[j] = put.Price - req.PutPurchase
			} else {
				callRow[j] = call.Price
				putRow[j] = put.Price
			}
		}
		res.Call[i] = callRow
		res.Put[i] = putRow
	}

	return res, nil
}
