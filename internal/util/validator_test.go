package util

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// TestValidateAmount_Positive checks accepted amounts
func TestValidateAmount_Positive(t *testing.T) {
	testCases := []string{"0.01", "1", "100.5", "9999999.99"}

	for _, s := range testCases {
		if err := ValidateAmount(decimal.RequireFromString(s)); err != nil {
			t.Errorf("ValidateAmount(%s) error = %v, want nil", s, err)
		}
	}
}

// TestValidateAmount_NotPositive checks rejected amounts
func TestValidateAmount_NotPositive(t *testing.T) {
	testCases := []string{"0", "-0.01", "-100"}

	for _, s := range testCases {
		if err := ValidateAmount(decimal.RequireFromString(s)); err == nil {
			t.Errorf("ValidateAmount(%s) error = nil, want error", s)
		}
	}
}

// TestValidateDate_Valid checks real calendar dates
func TestValidateDate_Valid(t *testing.T) {
	testCases := [][3]int{
		{2024, 1, 1},
		{2024, 2, 29}, // leap year
		{2026, 12, 31},
	}

	for _, d := range testCases {
		if err := ValidateDate(d[0], d[1], d[2]); err != nil {
			t.Errorf("ValidateDate(%v) error = %v, want nil", d, err)
		}
	}
}

// TestValidateDate_Invalid checks impossible dates
func TestValidateDate_Invalid(t *testing.T) {
	testCases := [][3]int{
		{2026, 2, 29}, // not a leap year
		{2026, 13, 1},
		{2026, 0, 1},
		{2026, 4, 31},
		{2026, 1, 0},
		{2026, 1, 32},
		{0, 1, 1},
	}

	for _, d := range testCases {
		if err := ValidateDate(d[0], d[1], d[2]); err == nil {
			t.Errorf("ValidateDate(%v) error = nil, want error", d)
		}
	}
}

type sampleInput struct {
	Name   string          `validate:"required,max=8"`
	Amount decimal.Decimal `validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	if err := ValidateStruct(sampleInput{Name: "ok", Amount: decimal.NewFromInt(3)}); err != nil {
		t.Errorf("ValidateStruct(valid) error = %v, want nil", err)
	}

	err := ValidateStruct(sampleInput{Name: "", Amount: decimal.NewFromInt(3)})
	if err == nil {
		t.Fatal("ValidateStruct(missing name) error = nil, want error")
	}
	if !strings.Contains(err.Error(), "Name failed on required") {
		t.Errorf("unexpected message %q", err.Error())
	}

	if err := ValidateStruct(sampleInput{Name: "far too long", Amount: decimal.NewFromInt(1)}); err == nil {
		t.Error("ValidateStruct(long name) error = nil, want error")
	}
}
