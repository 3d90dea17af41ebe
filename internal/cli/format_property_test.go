package cli

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any finite value, FormatPrice should:
// 1. Start with $ (or -$ for negative values)
// 2. Have exactly 2 decimal places
// 3. Preserve the numeric value when parsed back
func TestPriceFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatPrice produces valid dollar format", prop.ForAll(
		func(value float64) bool {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				return true
			}
			if math.Abs(value) > 1e12 {
				return true
			}

			formatted := FormatPrice(value)

			if value >= 0 {
				if !strings.HasPrefix(formatted, "$") {
					t.Logf("Expected $ prefix for %f, got %s", value, formatted)
					return false
				}
			} else {
				if !strings.HasPrefix(formatted, "$-") {
					t.Logf("Expected $- prefix for %f, got %s", value, formatted)
					return false
				}
			}

			parts := strings.Split(formatted, ".")
			if len(parts) != 2 {
				t.Logf("Expected decimal point for %f, got %s", value, formatted)
				return false
			}
			if len(parts[1]) != 2 {
				t.Logf("Expected 2 decimal places for %f, got %s", value, formatted)
				return false
			}

			parsed, err := strconv.ParseFloat(strings.TrimPrefix(formatted, "$"), 64)
			if err != nil {
				t.Logf("Failed to parse back %s: %v", formatted, err)
				return false
			}
			if math.Abs(parsed-value) > 0.005+math.Abs(value)*1e-9 {
				t.Logf("Value not preserved: %f formatted as %s", value, formatted)
				return false
			}

			return true
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.TestingRun(t)
}

// For any finite value and decimal count, FormatAxis should produce a
// plain decimal string with exactly the requested decimals that parses
// back within rounding tolerance.
func TestAxisFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatAxis respects decimal count and value", prop.ForAll(
		func(value float64, decimals int) bool {
			formatted := FormatAxis(value, decimals)

			parts := strings.Split(formatted, ".")
			if decimals == 0 {
				if len(parts) != 1 {
					t.Logf("Expected no decimal point for %f with 0 decimals, got %s", value, formatted)
					return false
				}
			} else {
				if len(parts) != 2 || len(parts[1]) != decimals {
					t.Logf("Expected %d decimals for %f, got %s", decimals, value, formatted)
					return false
				}
			}

			parsed, err := strconv.ParseFloat(formatted, 64)
			if err != nil {
				t.Logf("Failed to parse back %s: %v", formatted, err)
				return false
			}
			tolerance := 0.5 * math.Pow(10, -float64(decimals))
			if math.Abs(parsed-value) > tolerance+math.Abs(value)*1e-9 {
				t.Logf("Value not preserved: %f formatted as %s", value, formatted)
				return false
			}

			return true
		},
		gen.Float64Range(-1e6, 1e6),
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}

// FormatGreek always carries 4 decimal places.
func TestGreekFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatGreek has 4 decimal places", prop.ForAll(
		func(value float64) bool {
			formatted := FormatGreek(value)
			parts := strings.Split(formatted, ".")
			return len(parts) == 2 && len(parts[1]) == 4
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.TestingRun(t)
}
