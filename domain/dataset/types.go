package dataset

import "entropynull/domain/core"

// InternalRow is one sequence's model-introspection record from
// metrics_internal. Per-window arrays may be empty when the source encoded
// them badly; they are never nil-vs-empty significant.
type InternalRow struct {
	Prompt core.PromptID `json:"prompt_id"`
	Model  core.ModelKey `json:"model_name"`

	ECIRaw          float64 `json:"eci_raw"`
	ECIResidualized float64 `json:"eci_residualized"`
	EarlyECIRaw     float64 `json:"early_eci_raw"`

	EffectiveRanks      []float64 `json:"effective_ranks"`
	ParticipationRatios []float64 `json:"participation_ratios"`
	Variances           []float64 `json:"variances"`
	WindowStarts        []float64 `json:"window_starts"`
	WindowEnds          []float64 `json:"window_ends"`
}

// ExternalRow is one sequence's behavioral record from metrics_external.
type ExternalRow struct {
	Prompt core.PromptID `json:"prompt_id"`
	Model  core.ModelKey `json:"model_name"`

	QAFailure         bool               `json:"qa_failure"`
	ReasoningFailures map[string]float64 `json:"reasoning_failures"`

	DeltaIValues       []float64 `json:"delta_i_values"`
	NgramNoveltyValues []float64 `json:"ngram_novelty_values"`
	CharEntropyValues  []float64 `json:"char_entropy_values"`
}

// MergedRow joins one internal and one external record sharing the same
// (prompt_id, model_name) key. Created once per analysis run, read-only
// afterwards.
type MergedRow struct {
	Internal InternalRow `json:"internal"`
	External ExternalRow `json:"external"`
}

// Key returns the composite join key.
func (r MergedRow) Key() core.SampleKey {
	return core.SampleKey{Prompt: r.Internal.Prompt, Model: r.Internal.Model}
}

func (r InternalRow) Key() core.SampleKey {
	return core.SampleKey{Prompt: r.Prompt, Model: r.Model}
}

func (r ExternalRow) Key() core.SampleKey {
	return core.SampleKey{Prompt: r.Prompt, Model: r.Model}
}
