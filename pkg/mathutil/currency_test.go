package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Installment", 87451.80800, 87451.81},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"Whole amount", 1000, "1000"},
		{"Rounds half up", 2.345, "2.35"},
		{"Keeps cents", 87451.81, "87451.81"},
		{"Drops sub-cent noise", 920048.1900000001, "920048.19"},
		{"Negative", -12.344, "-12.34"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToCurrency(tt.input)
			if result.String() != tt.expected {
				t.Errorf("ToCurrency(%v) = %s, expected %s", tt.input, result.String(), tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Very small positive", 0.001, true},
		{"Very small negative", -0.001, true},
		{"Just above tolerance", 0.02, false},
		{"Exactly tolerance", 0.01, true},
		{"Large negative", -100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsZero(tt.input)
			if result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(42) {
		t.Error("expected 42 to be finite")
	}
	if IsFinite(math.NaN()) {
		t.Error("expected NaN to be reported as not finite")
	}
	if IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Error("expected infinities to be reported as not finite")
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		a, b      float64
		tolerance float64
		expected  bool
	}{
		{"Equal values", 10, 10, 0.01, true},
		{"Inside tolerance", 10, 10.005, 0.01, true},
		{"Outside tolerance", 10, 10.02, 0.01, false},
		{"Negative difference", 10.02, 10, 0.01, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinTolerance(tt.a, tt.b, tt.tolerance); got != tt.expected {
				t.Errorf("WithinTolerance(%v, %v, %v) = %v, expected %v", tt.a, tt.b, tt.tolerance, got, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Below range", -5, 0},
		{"Inside range", 42.5, 42.5},
		{"Above range", 100.0000001, 100},
		{"Lower bound", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.input, 0, 100); got != tt.expected {
				t.Errorf("Clamp(%v, 0, 100) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		total    float64
		expected float64
	}{
		{"Half", 50, 100, 50},
		{"Quarter", 250000, 1000000, 25},
		{"Zero total", 10, 0, 0},
		{"Full", 7, 7, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePercentage(tt.value, tt.total)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v", tt.value, tt.total, result, tt.expected)
			}
		})
	}
}
