// Package types holds the payload shapes handed between pipeline stages.
package types

// FilePromptSpec is one unit of generation work: a target file plus the
// self-sufficient instructions for producing it. URL defaults to Filename
// when the distributor response omits it.
type FilePromptSpec struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Prompt   string `json:"prompt"`
}

// GenerationStatus is the outcome of a single per-file generation task.
type GenerationStatus string

const (
	StatusSuccess GenerationStatus = "success"
	StatusFailed  GenerationStatus = "failed"
)

// GenerationResult records the outcome for one file. It is created by a
// generation task and never mutated afterwards.
type GenerationResult struct {
	Filename string           `json:"filename"`
	Status   GenerationStatus `json:"status"`
	Path     string           `json:"path,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// PlanResult is the Planning Stage payload. On failure the Plan field
// carries an error description (prefixed "ERROR:") instead of a plan;
// callers detect errors by inspecting the payload, not by catching.
type PlanResult struct {
	Plan string `json:"plan"`
}

// DistributeResult is the Distribution Stage payload. Prompts is always
// non-nil so downstream stages can treat "nothing to do" and "error"
// uniformly as an empty work list.
type DistributeResult struct {
	Memory  string           `json:"memory"`
	Prompts []FilePromptSpec `json:"prompts"`
	Error   string           `json:"error,omitempty"`
}

// GenerateResult is the Generation Stage payload. Results holds every
// per-file outcome in completion order; Summary is the human-readable
// rendering of the same information.
type GenerateResult struct {
	Summary     string             `json:"summary"`
	PreviewLink string             `json:"preview_link,omitempty"`
	Results     []GenerationResult `json:"results,omitempty"`
}
