package core

import "github.com/google/uuid"

// PromptID identifies one generated sequence within a run.
type PromptID string

// ModelKey identifies the model that produced a sequence
// (e.g. "microsoft/phi-2").
type ModelKey string

// RunID identifies one analysis invocation.
type RunID string

// SampleKey is the composite join key shared by the internal and
// external metric tables.
type SampleKey struct {
	Prompt PromptID `json:"prompt_id"`
	Model  ModelKey `json:"model_name"`
}

// NewRunID generates a time-ordered run identifier.
func NewRunID() RunID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return RunID(id.String())
}

func (r RunID) String() string { return string(r) }
