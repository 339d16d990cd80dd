// internal/models/student.go
package models

// IncomeBracket buckets family income the same way the College Scorecard
// net-price breakdowns do.
type IncomeBracket string

const (
	Bracket0to30k   IncomeBracket = "0_30k"
	Bracket30to48k  IncomeBracket = "30_48k"
	Bracket48to75k  IncomeBracket = "48_75k"
	Bracket75to110k IncomeBracket = "75_110k"
	Bracket110kPlus IncomeBracket = "110k_plus"
)

// BracketMidpoint returns the approximate family income midpoint for a
// bracket, used as the denominator of the affordability ratio.
// Returns 0 for an unknown bracket.
func BracketMidpoint(bracket IncomeBracket) int {
	switch bracket {
	case Bracket0to30k:
		return 20000
	case Bracket30to48k:
		return 39000
	case Bracket48to75k:
		return 61000
	case Bracket75to110k:
		return 92000
	case Bracket110kPlus:
		return 140000
	}
	return 0
}

// IsValid reports whether the bracket is one of the five known buckets.
func (b IncomeBracket) IsValid() bool {
	return BracketMidpoint(b) > 0
}

// IsLowIncome reports whether the bracket is one of the two lowest buckets.
func (b IncomeBracket) IsLowIncome() bool {
	return b == Bracket0to30k || b == Bracket30to48k
}

// StudentProfile is the onboarding snapshot the scoring workers consume.
// Optional fields are pointers; absence means the student skipped that
// onboarding question.
type StudentProfile struct {
	ID                    string        `json:"id"`
	GPA                   *float64      `json:"gpa"`
	GradeLevel            *int          `json:"gradeLevel"`
	StateOfResidence      string        `json:"stateOfResidence"`
	IncomeBracket         IncomeBracket `json:"incomeBracket"`
	IsFirstGen            bool          `json:"isFirstGen"`
	IntendedMajor         string        `json:"intendedMajor"`
	CollegeTypePreference string        `json:"collegeTypePreference"`
	LocationPreference    string        `json:"locationPreference"`
	Email                 string        `json:"email,omitempty"`
	Phone                 string        `json:"phone,omitempty"`
}
