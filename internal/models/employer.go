// internal/models/employer.go
package models

// Employer is a verified recruiting partner shown on the career page.
type Employer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Industry   string `json:"industry"`
	Website    string `json:"website,omitempty"`
	IsVerified bool   `json:"isVerified"`
}

// RecruitingPref declares which college tiers and majors an employer recruits
// from. CollegeTiers and MajorKeywords are persisted JSON-encoded and decoded
// at the storage boundary. An empty MajorKeywords list means all majors.
type RecruitingPref struct {
	ID            string   `json:"id"`
	CollegeTiers  []string `json:"collegeTiers"`
	MajorKeywords []string `json:"majorKeywords"`
	IsActive      bool     `json:"isActive"`
}

// EmployerWithPrefs joins an employer with its recruiting preferences.
type EmployerWithPrefs struct {
	Employer
	RecruitingPrefs []RecruitingPref `json:"recruitingPrefs"`
}

// EmployerMatch is the derived match row for one employer and one student.
type EmployerMatch struct {
	Employer     Employer `json:"employer"`
	MatchedTiers []string `json:"matchedTiers"`
	MatchedMajor bool     `json:"matchedMajor"`
}
