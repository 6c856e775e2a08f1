package emi

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput signals a violated precondition (non-positive principal or
// tenure, negative rate). Inputs reaching this package should already have
// passed service-level validation.
var ErrInvalidInput = errors.New("emi: invalid input")

// Terms is the computed repayment quote. Values are unrounded; round at the
// storage/presentation boundary with Round to avoid compounding error.
type Terms struct {
	EMI           float64
	TotalInterest float64
	TotalPayable  float64
}

// Calculate computes the fixed monthly installment for an amortizing loan
// using the standard annuity formula. A zero annual rate degrades to
// straight-line repayment (principal / tenure) rather than dividing by zero.
func Calculate(principal, annualRatePercent float64, tenureMonths int) (Terms, error) {
	switch {
	case principal <= 0:
		return Terms{}, fmt.Errorf("%w: principal must be positive, got %v", ErrInvalidInput, principal)
	case tenureMonths <= 0:
		return Terms{}, fmt.Errorf("%w: tenure must be positive, got %d", ErrInvalidInput, tenureMonths)
	case annualRatePercent < 0:
		return Terms{}, fmt.Errorf("%w: rate must be non-negative, got %v", ErrInvalidInput, annualRatePercent)
	}

	n := float64(tenureMonths)
	r := annualRatePercent / 100 / 12
	if r == 0 {
		e := principal / n
		return Terms{EMI: e, TotalInterest: 0, TotalPayable: principal}, nil
	}

	pow := math.Pow(1+r, n)
	e := principal * r * pow / (pow - 1)
	total := e * n
	return Terms{EMI: e, TotalInterest: total - principal, TotalPayable: total}, nil
}

// Round rounds a monetary value to the nearest hundredth.
func Round(v float64) float64 { return math.Round(v*100) / 100 }

// Rounded returns the terms rounded for storage.
func (t Terms) Rounded() Terms {
	return Terms{
		EMI:           Round(t.EMI),
		TotalInterest: Round(t.TotalInterest),
		TotalPayable:  Round(t.TotalPayable),
	}
}
