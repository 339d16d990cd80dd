// internal/models/college.go
package models

// Scorecard ownership codes.
const (
	OwnershipPublic           = 1
	OwnershipPrivateNonprofit = 2
	OwnershipForProfit        = 3
)

// CollegeTier classifies a college for a given student by admission
// probability only. Composite desirability is tracked separately.
type CollegeTier string

const (
	TierReach  CollegeTier = "reach"
	TierMatch  CollegeTier = "match"
	TierLikely CollegeTier = "likely"
)

// College is a cached catalog record. Every Scorecard-derived field is
// nullable; scoring must degrade to documented neutral defaults.
type College struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	City              string   `json:"city"`
	State             string   `json:"state"`
	Ownership         int      `json:"ownership"`
	StudentSize       *int     `json:"studentSize"`
	AdmissionRate     *float64 `json:"admissionRate"`
	CompletionRate    *float64 `json:"completionRate"`
	MedianEarnings10y *int     `json:"medianEarnings10yr"`
	CostOfAttendance  *int     `json:"costOfAttendance"`
	NetPrice0to30k    *int     `json:"netPrice0_30k"`
	NetPrice30to48k   *int     `json:"netPrice30_48k"`
	NetPrice48to75k   *int     `json:"netPrice48_75k"`
	NetPrice75to110k  *int     `json:"netPrice75_110k"`
	NetPrice110kPlus  *int     `json:"netPrice110kPlus"`
}

// NetPriceForBracket returns the cached net price for the student's income
// bracket, or nil when the Scorecard has no data for that bracket.
func (c *College) NetPriceForBracket(bracket IncomeBracket) *int {
	switch bracket {
	case Bracket0to30k:
		return c.NetPrice0to30k
	case Bracket30to48k:
		return c.NetPrice30to48k
	case Bracket48to75k:
		return c.NetPrice48to75k
	case Bracket75to110k:
		return c.NetPrice75to110k
	case Bracket110kPlus:
		return c.NetPrice110kPlus
	}
	return nil
}

// CollegeScore is the derived per-student score set. Recomputed wholesale on
// every discovery run; prior rows for the student are replaced, never patched.
type CollegeScore struct {
	College        College     `json:"college"`
	AdmissionScore int         `json:"admissionScore"`
	NetPriceScore  int         `json:"netPriceScore"`
	OutcomeScore   int         `json:"outcomeScore"`
	CompositeScore int         `json:"compositeScore"`
	Tier           CollegeTier `json:"tier"`
}

// CollegeListEntry is a persisted college-list row joined with its college.
type CollegeListEntry struct {
	College     College     `json:"college"`
	Tier        CollegeTier `json:"tier"`
	Explanation string      `json:"explanation,omitempty"`
}
