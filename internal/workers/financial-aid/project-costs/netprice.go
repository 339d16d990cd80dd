// internal/workers/financial-aid/project-costs/netprice.go
package projectcosts

import (
	"math"

	"collegepath-workers/internal/models"
)

const (
	// Federal direct loan rate, amortized monthly over ten years.
	monthlyRate = 0.068 / 12
	loanTermM   = 120
)

// pocketCapacity approximates what student and family can cover per year
// from income, keyed by bracket.
var pocketCapacity = map[models.IncomeBracket]int{
	models.Bracket0to30k:   3_000,
	models.Bracket30to48k:  5_000,
	models.Bracket48to75k:  8_000,
	models.Bracket75to110k: 12_000,
	models.Bracket110kPlus: 18_000,
}

// FinancialSummary projects what one college costs a student over four
// years. All fields are nil when the Scorecard has no net price for the
// student's bracket.
type FinancialSummary struct {
	CollegeID         string `json:"collegeId"`
	CollegeName       string `json:"collegeName"`
	NetPricePerYear   *int   `json:"netPricePerYear"`
	FourYearNetCost   *int   `json:"fourYearNetCost"`
	TotalDebtEstimate *int   `json:"totalDebtEstimate"`
	MonthlyPayment    *int   `json:"monthlyPayment"`
	Tier              string `json:"tier"`
}

// FourYearNetCost is net price (already post-grant) times four.
func FourYearNetCost(netPricePerYear *int) *int {
	if netPricePerYear == nil {
		return nil
	}
	cost := *netPricePerYear * 4
	return &cost
}

// EstimateDebt assumes the pocket capacity for the bracket is covered from
// work and family savings; the remainder is borrowed each year. Award
// letter parsing replaces this heuristic with actuals once uploaded.
func EstimateDebt(netPricePerYear *int, bracket models.IncomeBracket) *int {
	if netPricePerYear == nil {
		return nil
	}
	yearlyLoan := *netPricePerYear - pocketCapacity[bracket]
	if yearlyLoan < 0 {
		yearlyLoan = 0
	}
	debt := yearlyLoan * 4
	return &debt
}

// MonthlyPayment amortizes the loan total at the federal direct rate over
// ten years. Zero debt repays nothing.
func MonthlyPayment(loanTotal int) int {
	if loanTotal <= 0 {
		return 0
	}
	numerator := monthlyRate * math.Pow(1+monthlyRate, loanTermM)
	denominator := math.Pow(1+monthlyRate, loanTermM) - 1
	return int(math.Round(float64(loanTotal) * (numerator / denominator)))
}

// BuildFinancialSummary computes the full projection for one college on a
// student's list. A missing bracket falls back to the middle bracket for
// display purposes only.
func BuildFinancialSummary(entry models.CollegeListEntry, student models.StudentProfile) FinancialSummary {
	bracket := student.IncomeBracket
	if !bracket.IsValid() {
		bracket = models.Bracket48to75k
	}

	college := entry.College
	netPrice := college.NetPriceForBracket(bracket)
	debt := EstimateDebt(netPrice, bracket)

	summary := FinancialSummary{
		CollegeID:         college.ID,
		CollegeName:       college.Name,
		NetPricePerYear:   netPrice,
		FourYearNetCost:   FourYearNetCost(netPrice),
		TotalDebtEstimate: debt,
		Tier:              string(entry.Tier),
	}
	if debt != nil {
		payment := MonthlyPayment(*debt)
		summary.MonthlyPayment = &payment
	}
	return summary
}
