// Package domain contains core business types and interfaces.
//
// This file computes a household's income as a percentage of the federal
// poverty line and maps it to a fee-reduction tier.
package domain

import "math"

// FeeTier is the fee-reduction classification derived from household
// income. It is computed at request time and never persisted.
type FeeTier string

const (
	FeeTierFree      FeeTier = "free"
	FeeTierReduced25 FeeTier = "reduced_25"
	FeeTierReduced50 FeeTier = "reduced_50"
	FeeTierStandard  FeeTier = "standard"
)

// PovertyGuideline holds the annual guideline constants for one
// publication year and region: the poverty line for a household of one
// plus the amount added for each additional member.
type PovertyGuideline struct {
	Base      float64
	PerPerson float64
}

// Guideline2025Contiguous is the 2025 HHS guideline for the 48
// contiguous states and DC. Alaska and Hawaii publish higher figures;
// supporting them is a documented non-goal. Constants must be reviewed
// annually when HHS publishes new guidelines.
var Guideline2025Contiguous = PovertyGuideline{
	Base:      15650,
	PerPerson: 5500,
}

// FeeAssessment is the outcome of a poverty-line calculation.
type FeeAssessment struct {
	Percentage int     // income as a rounded percentage of the poverty line
	Tier       FeeTier // derived fee tier
}

// Assess computes the income-to-poverty-line percentage and fee tier
// for a household under this guideline.
//
// Inputs are validated before any arithmetic: householdSize must be a
// positive integer and annualIncome a non-negative finite number.
// Boundary percentages (exactly 100, 150, 200) fall into the lower tier.
func (g PovertyGuideline) Assess(annualIncome float64, householdSize int) (FeeAssessment, error) {
	const op = "poverty.assess"

	if householdSize < 1 {
		return FeeAssessment{}, Invalid(op, "household size must be at least 1")
	}
	if math.IsNaN(annualIncome) || math.IsInf(annualIncome, 0) {
		return FeeAssessment{}, Invalid(op, "annual income must be a finite number")
	}
	if annualIncome < 0 {
		return FeeAssessment{}, Invalid(op, "annual income must not be negative")
	}

	povertyLine := g.Base + float64(householdSize-1)*g.PerPerson
	ratio := annualIncome / povertyLine * 100

	// The tier uses the exact ratio, not the rounded display value:
	// a household one dollar over the line is already past the free
	// boundary even though its percentage still rounds to 100.
	var tier FeeTier
	switch {
	case ratio <= 100:
		tier = FeeTierFree
	case ratio <= 150:
		tier = FeeTierReduced25
	case ratio <= 200:
		tier = FeeTierReduced50
	default:
		tier = FeeTierStandard
	}

	return FeeAssessment{Percentage: int(math.Round(ratio)), Tier: tier}, nil
}

// CalculateFeeTier assesses a household against the current
// contiguous-US guideline.
func CalculateFeeTier(annualIncome float64, householdSize int) (FeeAssessment, error) {
	return Guideline2025Contiguous.Assess(annualIncome, householdSize)
}
