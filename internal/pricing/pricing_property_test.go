package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: For any valid parameters with T > 0, put-call parity holds:
// C - P = S - K*exp(-rT) within floating tolerance.
//
// Property: Call delta is in [0, 1], put delta in [-1, 0], gamma is
// non-negative and identical across sides, and no output is NaN or Inf.

// paramsGen generates valid pricing parameters over realistic ranges.
func paramsGen() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(1.0, 500.0),   // spot
		gen.Float64Range(1.0, 500.0),   // strike
		gen.Float64Range(-0.05, 0.15),  // rate
		gen.Float64Range(0.01, 5.0),    // time to expiry
		gen.Float64Range(0.01, 2.0),    // volatility
	).Map(func(vals []interface{}) Params {
		return Params{
			Spot:         vals[0].(float64),
			Strike:       vals[1].(float64),
			Rate:         vals[2].(float64),
			TimeToExpiry: vals[3].(float64),
			Volatility:   vals[4].(float64),
		}
	})
}

func TestProperty_PutCallParity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("C - P equals S - K*exp(-rT)", prop.ForAll(
		func(p Params) bool {
			call, put, err := Evaluate(p)
			if err != nil {
				return false
			}
			lhs := call.Price - put.Price
			rhs := p.Spot - p.Strike*math.Exp(-p.Rate*p.TimeToExpiry)
			scale := math.Max(1.0, math.Max(math.Abs(lhs), math.Abs(rhs)))
			return math.Abs(lhs-rhs)/scale < 1e-6
		},
		paramsGen(),
	))

	properties.TestingRun(t)
}

func TestProperty_DeltaWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("call delta in [0,1] and put delta in [-1,0]", prop.ForAll(
		func(p Params) bool {
			call, put, err := Evaluate(p)
			if err != nil {
				return false
			}
			if call.Delta < 0 || call.Delta > 1 {
				return false
			}
			return put.Delta >= -1 && put.Delta <= 0
		},
		paramsGen(),
	))

	properties.TestingRun(t)
}

func TestProperty_GammaNonNegativeAndSymmetric(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("gamma >= 0 and identical for call and put", prop.ForAll(
		func(p Params) bool {
			call, put, err := Evaluate(p)
			if err != nil {
				return false
			}
			return call.Gamma >= 0 && call.Gamma == put.Gamma
		},
		paramsGen(),
	))

	properties.TestingRun(t)
}

func TestProperty_CallPriceMonotonicInSpot(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("call non-decreasing and put non-increasing in spot", prop.ForAll(
		func(p Params, bump float64) bool {
			lo, _, err := Evaluate(p)
			if err != nil {
				return false
			}
			bumped := p
			bumped.Spot += bump
			hi, _, err := Evaluate(bumped)
			if err != nil {
				return false
			}
			_, putLo, _ := Evaluate(p)
			_, putHi, _ := Evaluate(bumped)

			const slack = 1e-9
			return hi.Price >= lo.Price-slack && putHi.Price <= putLo.Price+slack
		},
		paramsGen(),
		gen.Float64Range(0.01, 100.0),
	))

	properties.TestingRun(t)
}

func TestProperty_OutputsAlwaysFinite(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	// Includes degenerate T and sigma down to exactly zero.
	degenerateGen := gopter.CombineGens(
		gen.Float64Range(1.0, 500.0),
		gen.Float64Range(1.0, 500.0),
		gen.Float64Range(-0.05, 0.15),
		gen.OneGenOf(gen.Const(0.0), gen.Float64Range(0, 1e-8), gen.Float64Range(0.01, 5.0)),
		gen.OneGenOf(gen.Const(0.0), gen.Float64Range(0, 1e-8), gen.Float64Range(0.01, 2.0)),
	).Map(func(vals []interface{}) Params {
		return Params{
			Spot:         vals[0].(float64),
			Strike:       vals[1].(float64),
			Rate:         vals[2].(float64),
			TimeToExpiry: vals[3].(float64),
			Volatility:   vals[4].(float64),
		}
	})

	properties.Property("price and Greeks are finite, price non-negative", prop.ForAll(
		func(p Params) bool {
			call, put, err := Evaluate(p)
			if err != nil {
				return false
			}
			for _, r := range []Result{call, put} {
				// Deep out-of-the-money tails can round a few ulps below
				// zero through the erf-based CDF.
				if r.Price < -1e-9 {
					return false
				}
				for _, v := range []float64{r.Price, r.Delta, r.Gamma, r.Theta, r.Vega, r.Rho} {
					if math.IsNaN(v) || math.IsInf(v, 0) {
						return false
					}
				}
			}
			return true
		},
		degenerateGen,
	))

	properties.TestingRun(t)
}
