// internal/oracle/survey.go
package oracle

import "strings"

// SurveyInput is the quiz answer set. Every field is optional and a missing
// field behaves as the empty string.
type SurveyInput struct {
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	BirthMonth   string `json:"birthMonth,omitempty"`
	CurrentFocus string `json:"currentFocus,omitempty"`
	EnergyLevel  string `json:"energyLevel,omitempty"`
}

// Seed joins the raw fields with "|" in the fixed order
// name, email, birthMonth, currentFocus, energyLevel.
func (s SurveyInput) Seed() string {
	return strings.Join([]string{
		s.Name,
		s.Email,
		s.BirthMonth,
		s.CurrentFocus,
		s.EnergyLevel,
	}, "|")
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
