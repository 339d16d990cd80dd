// internal/workers/financial-aid/parse-award-letter/models.go
package parseawardletter

// Input carries the job variables for the parse-award-letter task.
type Input struct {
	StudentProfileID string `json:"studentProfileId"`
	RawText          string `json:"rawText"`

	// CostOfAttendance feeds the out-of-pocket estimate when known.
	CostOfAttendance *int `json:"costOfAttendance,omitempty"`
}

// Output is written back to the process instance on completion.
type Output struct {
	ParsedAwardLetter
	ComponentCount int `json:"componentCount"`
}
