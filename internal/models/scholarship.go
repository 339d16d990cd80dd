// internal/models/scholarship.go
package models

// Scholarship is one entry in the scholarship catalog. List-valued columns
// (eligibleStates, eligibleMajors, demographicTags) are stored JSON-encoded;
// the storage layer decodes them before matching ever sees the record. A nil
// list means "no restriction", which is different from an empty one.
type Scholarship struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	AmountMin        *int     `json:"amountMin"`
	AmountMax        *int     `json:"amountMax"`
	MinGPA           *float64 `json:"minGpa"`
	RequiresFirstGen bool     `json:"requiresFirstGen"`
	RequiresEssay    bool     `json:"requiresEssay"`
	EligibleStates   []string `json:"eligibleStates"`
	EligibleMajors   []string `json:"eligibleMajors"`
	DemographicTags  []string `json:"demographicTags"`
	DeadlineMonth    *int     `json:"deadlineMonth"`
	DeadlineDay      *int     `json:"deadlineDay"`
	IsActive         bool     `json:"isActive"`
}

// DemographicTagLowIncome pairs with the two lowest income brackets.
const DemographicTagLowIncome = "low_income"
