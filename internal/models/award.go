// internal/models/award.go
package models

// AidCategory classifies one line of an award letter.
type AidCategory string

const (
	AidGrant       AidCategory = "grant"
	AidScholarship AidCategory = "scholarship"
	AidLoan        AidCategory = "loan"
	AidWorkStudy   AidCategory = "work_study"
)

// IsValid reports whether the category is one of the four known kinds.
func (c AidCategory) IsValid() bool {
	switch c {
	case AidGrant, AidScholarship, AidLoan, AidWorkStudy:
		return true
	}
	return false
}

// AidComponent is one parsed line of an award letter. MustRepay is forced
// true for loans and false for everything else regardless of what the
// parser emits.
type AidComponent struct {
	Name      string      `json:"name"`
	Amount    int         `json:"amount"`
	Category  AidCategory `json:"category"`
	MustRepay bool        `json:"mustRepay"`
	Renewable bool        `json:"renewable"`
}
