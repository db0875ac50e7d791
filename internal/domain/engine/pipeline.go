package engine

// PipelinePhase names a stage of the calculation.
type PipelinePhase string

const (
	Promotion PipelinePhase = "promotion"
	Stacking  PipelinePhase = "stacking"
	Totals    PipelinePhase = "totals"
)
