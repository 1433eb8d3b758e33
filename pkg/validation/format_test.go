package validation

import (
	"strings"
	"testing"

	"github.com/QingyuanL1/financial-backend-sub000/internal/budget"
	"github.com/shopspring/decimal"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		expectErr bool
	}{
		{name: "Valid pretty format", format: "pretty"},
		{name: "Valid csv format", format: "csv"},
		{name: "Invalid format", format: "json", expectErr: true},
		{name: "Empty format", format: "", expectErr: true},
		{name: "Case sensitive", format: "CSV", expectErr: true},
		{name: "Leading/trailing spaces", format: " pretty ", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if tt.expectErr && err == nil {
				t.Errorf("ValidateOutputFormat(%q) expected error but got none", tt.format)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("ValidateOutputFormat(%q) unexpected error = %v", tt.format, err)
			}
		})
	}
}

func TestValidateEntries(t *testing.T) {
	valid := budget.Entry{TableKey: "new_orders", Category: "设备", Customer: "上海", YearlyBudget: decimal.NewFromInt(-5)}

	tests := []struct {
		name    string
		entries []budget.Entry
		errPart string
	}{
		{name: "No entries"},
		{name: "Negative budget allowed", entries: []budget.Entry{valid}},
		{
			name:    "Missing table key",
			entries: []budget.Entry{valid, {Category: "设备", Customer: "上海"}},
			errPart: "entry 1: tableKey",
		},
		{
			name:    "Blank category",
			entries: []budget.Entry{{TableKey: "new_orders", Category: "  ", Customer: "上海"}},
			errPart: "category",
		},
		{
			name:    "Missing customer",
			entries: []budget.Entry{{TableKey: "new_orders", Category: "设备"}},
			errPart: "customer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntries(tt.entries)
			if tt.errPart == "" {
				if err != nil {
					t.Fatalf("ValidateEntries() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errPart) {
				t.Fatalf("ValidateEntries() error = %v, want it to mention %q", err, tt.errPart)
			}
		})
	}
}
