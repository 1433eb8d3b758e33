// Package format provides string formatting for report figures.
package format

import (
	"fmt"
	"strconv"

	"github.com/QingyuanL1/financial-backend-sub000/pkg/mathutil"
)

// Progress returns the completion of current against plan as "12.34%".
// A plan of zero or less yields notApplicable instead.
func Progress(current, plan float64, notApplicable string) string {
	if plan <= 0 {
		return notApplicable
	}
	return Percent(mathutil.CalculatePercentage(current, plan))
}

// Percent formats an already-scaled percentage with two decimals, e.g. "50.00%".
func Percent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// PlainPercent appends "%" to the shortest decimal representation of value,
// e.g. 25.5 becomes "25.5%" and 30 becomes "30%".
func PlainPercent(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + "%"
}
