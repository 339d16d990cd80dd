// internal/workers/discovery/generate-explanations/models.go
package generateexplanations

import "collegepath-workers/internal/models"

// Input carries the job variables for the generate-explanations task.
type Input struct {
	StudentProfileID string `json:"studentProfileId"`

	// Profile can be supplied inline to skip the profile lookup.
	Profile *models.StudentProfile `json:"profile,omitempty"`
}

// Output is written back to the process instance on completion.
type Output struct {
	CollegesExplained int  `json:"collegesExplained"`
	UsedFallback      bool `json:"usedFallback"`
}
