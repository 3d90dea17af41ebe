package cli

import (
	"fmt"
	"strconv"
	"time"
)

// FormatPrice formats a monetary value with 2 decimal places.
func FormatPrice(value float64) string {
	return fmt.Sprintf("$%.2f", value)
}

// FormatGreek formats a Greek sensitivity with 4 decimal places.
func FormatGreek(value float64) string {
	return fmt.Sprintf("%.4f", value)
}

// FormatAxis formats an axis label with the given decimal places.
func FormatAxis(value float64, decimals int) string {
	return strconv.FormatFloat(value, 'f', decimals, 64)
}

// FormatDate formats a timestamp for display.
func FormatDate(t time.Time) string {
	return t.Format("02-Jan-2006 15:04")
}
