// internal/workers/financial-aid/parse-award-letter/parser.go
package parseawardletter

import (
	"encoding/json"
	"math"
	"strings"

	"collegepath-workers/internal/models"
)

// ParsedAwardLetter is the categorized result for one uploaded letter.
type ParsedAwardLetter struct {
	Components     []models.AidComponent `json:"components"`
	FreeMoneyTotal int                   `json:"freeMoneyTotal"`
	LoanTotal      int                   `json:"loanTotal"`
	WorkStudyTotal int                   `json:"workStudyTotal"`
	OutOfPocket    int                   `json:"outOfPocket"`
}

// rawComponent mirrors the model output before sanitization; amount comes
// back as a float when the model ignores the integer instruction.
type rawComponent struct {
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Category  string  `json:"category"`
	MustRepay bool    `json:"mustRepay"`
	Renewable bool    `json:"renewable"`
}

// ExtractComponents pulls the JSON array out of a model response and
// sanitizes each entry. Code fences and surrounding prose are tolerated;
// entries with an unknown category or missing name are dropped. Returns
// nil when no array can be found or decoded.
func ExtractComponents(response string) []models.AidComponent {
	cleaned := strings.ReplaceAll(response, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || end < start {
		return nil
	}

	var raw []rawComponent
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &raw); err != nil {
		return nil
	}

	var components []models.AidComponent
	for _, c := range raw {
		category := models.AidCategory(c.Category)
		if strings.TrimSpace(c.Name) == "" || !category.IsValid() {
			continue
		}
		components = append(components, models.AidComponent{
			Name:      strings.TrimSpace(c.Name),
			Amount:    int(math.Round(c.Amount)),
			Category:  category,
			MustRepay: category == models.AidLoan,
			Renewable: c.Renewable,
		})
	}
	return components
}

// Summarize totals the components. Out of pocket is cost of attendance
// minus free money, floored at zero; unknown cost of attendance reports 0.
func Summarize(components []models.AidComponent, costOfAttendance *int) ParsedAwardLetter {
	parsed := ParsedAwardLetter{Components: components}
	for _, c := range components {
		switch c.Category {
		case models.AidGrant, models.AidScholarship:
			parsed.FreeMoneyTotal += c.Amount
		case models.AidLoan:
			parsed.LoanTotal += c.Amount
		case models.AidWorkStudy:
			parsed.WorkStudyTotal += c.Amount
		}
	}
	if costOfAttendance != nil {
		parsed.OutOfPocket = *costOfAttendance - parsed.FreeMoneyTotal
		if parsed.OutOfPocket < 0 {
			parsed.OutOfPocket = 0
		}
	}
	return parsed
}
