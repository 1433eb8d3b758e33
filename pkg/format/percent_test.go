package format

import "testing"

func TestProgress(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		plan     float64
		expected string
	}{
		{"Half complete", 500, 1000, "50.00%"},
		{"Quarter complete", 7500, 30000, "25.00%"},
		{"Repeating fraction", 1, 3, "33.33%"},
		{"Over plan", 2500, 1000, "250.00%"},
		{"Zero plan", 500, 0, "/"},
		{"Negative plan", 500, -10, "/"},
		{"Zero current", 0, 1000, "0.00%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.current, tt.plan, "/"); got != tt.expected {
				t.Errorf("Progress(%v, %v) = %q, expected %q", tt.current, tt.plan, got, tt.expected)
			}
		})
	}
}

func TestProgressCustomNotApplicable(t *testing.T) {
	if got := Progress(100, 0, "0.00%"); got != "0.00%" {
		t.Fatalf("expected custom not-applicable marker, got %q", got)
	}
}

func TestPlainPercent(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{30, "30%"},
		{25.5, "25.5%"},
		{0.125, "0.125%"},
	}

	for _, tt := range tests {
		if got := PlainPercent(tt.input); got != tt.expected {
			t.Errorf("PlainPercent(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
