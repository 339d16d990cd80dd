// internal/workers/discovery/search-colleges/models.go
package searchcolleges

import "collegepath-workers/internal/models"

// Input is the job payload. QueryType defaults to college_catalog; the
// similar_colleges type needs CollegeID and ignores the filter fields.
type Input struct {
	QueryType string `json:"queryType,omitempty"`
	Query     string `json:"query,omitempty"`
	State     string `json:"state,omitempty"`
	Ownership int    `json:"ownership,omitempty"`
	MinSize   int    `json:"minSize,omitempty"`
	CollegeID string `json:"collegeId,omitempty"`
	Page      int    `json:"page,omitempty"`
	PerPage   int    `json:"perPage,omitempty"`
}

type Output struct {
	Results  []models.College `json:"results"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PerPage  int              `json:"perPage"`
	MaxScore float64          `json:"maxScore"`
	Took     int64            `json:"took"`
}
