// pkg/registry/schema.go
package registry

// Agent categories the registry groups activities under. One category per
// counseling agent.
const (
	CategoryDiscovery    = "discovery"
	CategoryScholarships = "scholarships"
	CategoryApplications = "applications"
	CategoryCareer       = "career"
	CategoryFinancialAid = "financial-aid"
)

// ActivityRegistry is the decoded form of configs/activities.json.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one registered Zeebe job worker: its dotted ID
// (domain.entity.action), task type, declared input/output schemas and the
// BPMN error codes it may throw.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows"`
	Tags                 []string               `json:"tags"`
}
