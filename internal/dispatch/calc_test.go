package dispatch

import (
	"testing"
)

func TestCalculatorWordOperators(t *testing.T) {
	d := newTestDispatcher(t)

	cases := []struct {
		in   string
		want string
	}{
		{"5 artı 3", "Sonuç: 8"},
		{"5 artı 3 kaç eder", "Sonuç: 8"},
		{"10 çarpı 7", "Sonuç: 70"},
		{"100 bölü 4", "Sonuç: 25"},
		{"10 eksi 4", "Sonuç: 6"},
		{"beş artı üç", "Sonuç: 8"},
		{"10 bölü 4", "Sonuç: 2.5"},
		{"2 artı 3 çarpı 4", "Sonuç: 14"},
	}
	for _, tc := range cases {
		if got := d.handleCalculator(tc.in); got != tc.want {
			t.Fatalf("handleCalculator(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCalculatorDigitExpression(t *testing.T) {
	d := newTestDispatcher(t)
	if got := d.handleCalculator("5+3 kaç eder"); got != "Sonuç: 8" {
		t.Fatalf("digit expression failed: %q", got)
	}
}

func TestCalculatorFallbackSum(t *testing.T) {
	d := newTestDispatcher(t)
	// "ile" breaks the expression; the bare numbers plus keyword path kicks in.
	if got := d.handleCalculator("3 ile 4 sayılarını topla"); got != "Sonuç: 7" {
		t.Fatalf("fallback sum failed: %q", got)
	}
}

func TestCalculatorFallbackProduct(t *testing.T) {
	d := newTestDispatcher(t)
	if got := d.handleCalculator("3 ile 4 sayılarını çarp"); got != "Sonuç: 12" {
		t.Fatalf("fallback product failed: %q", got)
	}
}

func TestCalculatorHelpOnTooFewNumbers(t *testing.T) {
	d := newTestDispatcher(t)
	for _, in := range []string{"hesap yap", "bunu hesapla", ""} {
		if got := d.handleCalculator(in); got != respCalcHelp {
			t.Fatalf("handleCalculator(%q) = %q, want help message", in, got)
		}
	}
}

func TestCalculatorDivisionByZero(t *testing.T) {
	d := newTestDispatcher(t)
	if got := d.handleCalculator("5 bölü 0"); got != respCalcHelp {
		t.Fatalf("division by zero must fall through to help, got %q", got)
	}
}

func TestEvalExpressionRejectsGarbage(t *testing.T) {
	for _, expr := range []string{"", "+", "5+", "..", "1.2.3", "5//2"} {
		if _, err := evalExpression(expr); err == nil {
			t.Fatalf("expected error for %q", expr)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{8, "8"},
		{70, "70"},
		{2.5, "2.5"},
		{0.1, "0.1"},
	}
	for _, tc := range cases {
		if got := formatNumber(tc.in); got != tc.want {
			t.Fatalf("formatNumber(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
