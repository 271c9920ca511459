package handler

import (
	"errors"
	"math"
	"testing"
)

func TestEvaluateExpression(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"2+2", 4},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 ÷ 4", 2.5},
		{"3 × 3", 9},
		{"2^10", 1024},
		{"5²", 25},
		{"2³", 8},
		{"√(16)", 4},
		{"sqrt(2)", math.Sqrt2},
		{"abs(-7)", 7},
		{"floor(3.9)", 3},
		{"ceil(3.1)", 4},
		{"round(2.5)", 3},
		{"min(3, 1, 2)", 1},
		{"max(3, 1, 2)", 3},
		{"pi", math.Pi},
		{"2 * π", 2 * math.Pi},
		{"10 % 3", 1},
		{"-5 + 3", -2},
	}
	for _, tt := range tests {
		got, err := evaluateExpression(tt.input)
		if err != nil {
			t.Errorf("evaluateExpression(%q) returned error: %v", tt.input, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("evaluateExpression(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestEvaluateExpressionRejections(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"process.exit()", errCalcBlocked},
		{"require('fs')", errCalcBlocked},
		{"while(1){}", errCalcBlocked},
		{"1; 2", errCalcBlocked},
		// Blocked terms win even when the characters would pass the allow-list.
		{"eval(1)", errCalcBlocked},
		{"a[0]", errCalcCharset},
		{"x = 3", errCalcCharset},
		{"foo(3)", errCalcIdentifier},
		{"atan(1)", errCalcIdentifier},
		{"1/0", errCalcNotFinite},
		{"log(0)", errCalcNotFinite},
		{"sqrt(-1)", errCalcNotFinite},
	}
	for _, tt := range tests {
		_, err := evaluateExpression(tt.input)
		if !errors.Is(err, tt.want) {
			t.Errorf("evaluateExpression(%q) error = %v, want %v", tt.input, err, tt.want)
		}
	}
}

func TestFormatCalcResult(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{4, "4"},
		{-12, "-12"},
		{2.5, "2.5"},
		{1.0 / 3.0, "0.333333"},
		{1e16, "1.000000e+16"},
		{0.0000001, "1.000000e-07"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := formatCalcResult(tt.in); got != tt.want {
			t.Errorf("formatCalcResult(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
