// Package period provides parsing and validation of reporting periods.
package period

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/QingyuanL1/financial-backend-sub000/pkg/constants"
)

var (
	monthRE = regexp.MustCompile(`^\d{4}-\d{2}$`)
	yearRE  = regexp.MustCompile(`^\d{4}$`)
)

// Year returns the part of a period before the first "-". Both "2025-01" and
// "2025" yield "2025".
func Year(period string) string {
	p := strings.TrimSpace(period)
	if idx := strings.Index(p, "-"); idx >= 0 {
		return p[:idx]
	}
	return p
}

// ValidateMonth checks that value is a YYYY-MM period with a real month.
func ValidateMonth(value string) error {
	if !monthRE.MatchString(value) {
		return fmt.Errorf("period must be formatted as YYYY-MM, got %q", value)
	}
	if _, err := time.Parse(constants.MonthLayout, value); err != nil {
		return fmt.Errorf("period %q is not a valid month", value)
	}
	return nil
}

// ValidateYear checks that value is a bare YYYY period.
func ValidateYear(value string) error {
	if !yearRE.MatchString(value) {
		return fmt.Errorf("year must be formatted as YYYY, got %q", value)
	}
	return nil
}
