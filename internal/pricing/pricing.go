// Package pricing implements the Black-Scholes closed-form model for
// European options, returning theoretical prices and Greeks.
package pricing

import (
	"math"

	"optionheat/internal/errors"
)

// Side identifies which side of an option is being priced.
type Side string

const (
	SideCall Side = "CALL"
	SidePut  Side = "PUT"
)

// Epsilon is the degeneracy threshold for time-to-expiry and volatility.
// At or below it the standard formula divides by ~zero, so pricing falls
// back to intrinsic value against the discounted strike.
const Epsilon = 1e-8

// Params holds the inputs to a Black-Scholes evaluation. All rates and
// volatility are annualized; Rate is continuously compounded.
type Params struct {
	Spot         float64 // S, current underlying price
	Strike       float64 // K
	Rate         float64 // r, may be zero or negative
	TimeToExpiry float64 // T, years
	Volatility   float64 // sigma (0.20 = 20%)
}

// Result holds a theoretical price and its sensitivities for one side.
//
// Scaling conventions: Vega is per unit change in sigma (per 1.00, not per
// 1%); Theta is per year; Rho is per 1 percentage-point change in the rate.
// Any per-1%-vol or per-day rescaling is a presentation concern.
type Result struct {
	Price float64
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// Validate checks that the parameters describe a priceable option.
// Degenerate-but-valid inputs (T or sigma at zero) pass validation; they
// are handled by the intrinsic-value fallback, not reported as errors.
func (p Params) Validate() error {
	switch {
	case !isFinite(p.Spot):
		return errors.NewValidationError("spot", p.Spot, "must be finite")
	case p.Spot <= 0:
		return errors.NewValidationError("spot", p.Spot, "must be positive")
	case !isFinite(p.Strike):
		return errors.NewValidationError("strike", p.Strike, "must be finite")
	case p.Strike <= 0:
		return errors.NewValidationError("strike", p.Strike, "must be positive")
	case !isFinite(p.Rate):
		return errors.NewValidationError("rate", p.Rate, "must be finite")
	case !isFinite(p.TimeToExpiry):
		return errors.NewValidationError("time_to_expiry", p.TimeToExpiry, "must be finite")
	case p.TimeToExpiry < 0:
		return errors.NewValidationError("time_to_expiry", p.TimeToExpiry, "must be non-negative")
	case !isFinite(p.Volatility):
		return errors.NewValidationError("volatility", p.Volatility, "must be finite")
	case p.Volatility < 0:
		return errors.NewValidationError("volatility", p.Volatility, "must be non-negative")
	}
	return nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// normPDF is the standard normal density.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2.0*math.Pi)
}

// normCDF is the standard normal cumulative distribution, via the error
// function so no statistics dependency is needed.
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// PriceAndGreeks evaluates one side of the option.
func PriceAndGreeks(p Params, side Side) (Result, error) {
	call, put, err := Evaluate(p)
	if err != nil {
		return Result{}, err
	}
	if side == SidePut {
		return put, nil
	}
	return call, nil
}

// Evaluate prices both sides of the option in a single pass. It is
// deterministic, has no side effects, and never returns NaN or Inf for
// valid parameters.
func Evaluate(p Params) (call, put Result, err error) {
	if err := p.Validate(); err != nil {
		return Result{}, Result{}, err
	}

	if p.TimeToExpiry <= Epsilon || p.Volatility <= Epsilon {
		call, put = intrinsic(p)
		return call, put, nil
	}

	sqrtT := math.Sqrt(p.TimeToExpiry)
	den := p.Volatility * sqrtT
	d1 := (math.Log(p.Spot/p.Strike) + (p.Rate+0.5*p.Volatility*p.Volatility)*p.TimeToExpiry) / den
	d2 := d1 - den

	nd1 := normCDF(d1)
	nd2 := normCDF(d2)
	nmd1 := normCDF(-d1)
	nmd2 := normCDF(-d2)
	pdf1 := normPDF(d1)
	disc := math.Exp(-p.Rate * p.TimeToExpiry)

	call.Price = p.Spot*nd1 - p.Strike*disc*nd2
	put.Price = p.Strike*disc*nmd2 - p.Spot*nmd1

	call.Delta = nd1
	put.Delta = nd1 - 1.0

	gamma := pdf1 / (p.Spot * den)
	call.Gamma = gamma
	put.Gamma = gamma

	vega := p.Spot * pdf1 * sqrtT
	call.Vega = vega
	put.Vega = vega

	thetaCommon := -(p.Spot * pdf1 * p.Volatility) / (2.0 * sqrtT)
	call.Theta = thetaCommon - p.Rate*p.Strike*disc*nd2
	put.Theta = thetaCommon + p.Rate*p.Strike*disc*nmd2

	call.Rho = p.Strike * p.TimeToExpiry * disc * nd2 / 100.0
	put.Rho = -p.Strike * p.TimeToExpiry * disc * nmd2 / 100.0

	return call, put, nil
}

// intrinsic is the degenerate-input fallback for T or sigma at ~zero.
// The option collapses to its intrinsic value against the discounted
// strike K*exp(-rT), keeping time value of money even when sigma is zero.
//
// Delta ties at S == K*exp(-rT) resolve to 0.5/-0.5; Rho follows the same
// indicator as Delta so the price and Greek fallbacks stay consistent.
// Gamma, Vega and Theta are zero in the flat payoff regions.
func intrinsic(p Params) (call, put Result) {
	disc := 1.0
	if p.TimeToExpiry > Epsilon {
		disc = math.Exp(-p.Rate * p.TimeToExpiry)
	}
	strikePV := p.Strike * disc

	call.Price = math.Max(p.Spot-strikePV, 0.0)
	put.Price = math.Max(strikePV-p.Spot, 0.0)

	switch {
	case p.Spot > strikePV:
		call.Delta, put.Delta = 1.0, 0.0
	case p.Spot < strikePV:
		call.Delta, put.Delta = 0.0, -1.0
	default:
		call.Delta, put.Delta = 0.5, -0.5
	}

	if p.TimeToExpiry > Epsilon {
		rho := p.Strike * p.TimeToExpiry * disc / 100.0
		call.Rho = call.Delta * rho
		put.Rho = put.Delta * rho
	}

	return call, put
}
