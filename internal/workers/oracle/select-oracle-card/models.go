// internal/workers/oracle/select-oracle-card/models.go
package selectoraclecard

import (
	"bytes"
	"encoding/json"

	"atlas-oracle/internal/common/errors"
	"atlas-oracle/internal/oracle"
	"atlas-oracle/pkg/registry"
)

// Input carries the survey answers from the process variables.
type Input oracle.SurveyInput

type Output struct {
	ReadingID  string      `json:"readingId"`
	Card       oracle.Card `json:"card"`
	Message    string      `json:"message"`
	Season     string      `json:"season"`
	Element    string      `json:"element"`
	EnergyTier string      `json:"energyTier"`
	Fallback   bool        `json:"fallback"`
}

// DecodeInput validates raw variables against the registered input schema
// and decodes them. Empty data is an empty survey.
func DecodeInput(data []byte) (*Input, error) {
	var input Input
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &input, nil
	}

	activity, err := registry.Default().Find(TaskType)
	if err != nil {
		return nil, err
	}
	if err := activity.ValidateInput(data); err != nil {
		return nil, errors.NewInvalidSurveyInputError(err)
	}
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, errors.NewInvalidSurveyInputError(err)
	}
	return &input, nil
}
