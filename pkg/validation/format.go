// Package validation checks user supplied values before they reach the store
// or the terminal.
package validation

import (
	"fmt"
	"strings"

	"github.com/QingyuanL1/financial-backend-sub000/internal/budget"
	"github.com/QingyuanL1/financial-backend-sub000/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateEntries checks that every budget entry names its table, category and
// customer. Negative budgets are allowed.
func ValidateEntries(entries []budget.Entry) error {
	for i, e := range entries {
		switch {
		case strings.TrimSpace(e.TableKey) == "":
			return fmt.Errorf("entry %d: tableKey is required", i)
		case strings.TrimSpace(e.Category) == "":
			return fmt.Errorf("entry %d: category is required", i)
		case strings.TrimSpace(e.Customer) == "":
			return fmt.Errorf("entry %d: customer is required", i)
		}
	}
	return nil
}
