package stages

import (
	"context"
	"fmt"
	"strings"

	"github.com/alantheprice/siteforge/pkg/events"
	"github.com/alantheprice/siteforge/pkg/filesystem"
	"github.com/alantheprice/siteforge/pkg/llm"
	"github.com/alantheprice/siteforge/pkg/logging"
	"github.com/alantheprice/siteforge/pkg/parser"
	"github.com/alantheprice/siteforge/pkg/prompts"
	"github.com/alantheprice/siteforge/pkg/types"
)

// Diagnostic sidecar suffixes written next to a failed file's intended
// location.
const (
	errorSidecarSuffix = ".error.txt"
	rawSidecarSuffix   = ".raw_output.txt"
)

// Generator fans out one model call per file prompt, extracts the code
// from each reply, persists it, and aggregates a run summary. The bus is
// optional; a nil bus disables progress events.
type Generator struct {
	client        llm.Client
	generatedRoot string
	bus           *events.EventBus
}

// NewGenerator creates a generation stage writing under generatedRoot.
func NewGenerator(client llm.Client, generatedRoot string, bus *events.EventBus) *Generator {
	return &Generator{client: client, generatedRoot: generatedRoot, bus: bus}
}

// Generate runs one per-file task per prompt spec concurrently and joins
// all of them; no task can cancel or poison its siblings. Partial success
// is a first-class outcome: the summary always covers every file.
func (g *Generator) Generate(ctx context.Context, memory string, specs []types.FilePromptSpec, runID string, opts llm.Options) types.GenerateResult {
	logger := logging.GetLogger()

	if strings.TrimSpace(runID) == "" {
		return types.GenerateResult{Summary: "ERROR: run ID is missing", Results: []types.GenerationResult{}}
	}
	if strings.TrimSpace(memory) == "" {
		return types.GenerateResult{Summary: "ERROR: shared memory is empty", Results: []types.GenerationResult{}}
	}
	if len(specs) == 0 {
		return types.GenerateResult{Summary: "ERROR: no file prompts to generate", Results: []types.GenerationResult{}}
	}

	logger.LogProcessStep(fmt.Sprintf("Generating: %d files for run %s", len(specs), runID))
	g.bus.Publish(events.EventTypeRunStarted, runID, map[string]any{"files": len(specs)})

	resultCh := make(chan types.GenerationResult, len(specs))
	for _, spec := range specs {
		go g.generateFile(ctx, memory, spec, runID, opts, resultCh)
	}

	// Join-all: collect in completion order, which need not match
	// submission order.
	results := make([]types.GenerationResult, 0, len(specs))
	for range specs {
		results = append(results, <-resultCh)
	}

	summary, previewLink := g.aggregate(runID, results)
	g.bus.Publish(events.EventTypeRunCompleted, runID, map[string]any{
		"summary":      summary,
		"preview_link": previewLink,
	})

	return types.GenerateResult{Summary: summary, PreviewLink: previewLink, Results: results}
}

// generateFile is one isolated per-file task. Any panic inside the task
// is converted to a failed result so the batch always completes.
func (g *Generator) generateFile(ctx context.Context, memory string, spec types.FilePromptSpec, runID string, opts llm.Options, resultCh chan<- types.GenerationResult) {
	logger := logging.GetLogger()

	defer func() {
		if r := recover(); r != nil {
			detail := fmt.Sprintf("unexpected failure generating %s: %v", spec.Filename, r)
			logger.Logf("%s", detail)
			filesystem.SaveSidecar(g.generatedRoot, runID, spec.Filename, errorSidecarSuffix, detail)
			resultCh <- g.failed(runID, spec.Filename, detail)
		}
	}()

	g.bus.Publish(events.EventTypeFileStarted, runID, map[string]any{"filename": spec.Filename})

	response, err := g.client.Invoke(ctx, prompts.BuildGenerationPrompt(memory, spec), opts)
	if err != nil {
		response = llm.ErrorText(err)
	}
	response = parser.StripReasoning(response)

	if llm.IsErrorText(response) {
		logger.Logf("Model call failed for %s: %s", spec.Filename, response)
		filesystem.SaveSidecar(g.generatedRoot, runID, spec.Filename, errorSidecarSuffix, response)
		resultCh <- g.failed(runID, spec.Filename, response)
		return
	}

	code, ok := parser.ExtractCodeBlock(response)
	if !ok {
		logger.Logf("No code block found in response for %s", spec.Filename)
		filesystem.SaveSidecar(g.generatedRoot, runID, spec.Filename, rawSidecarSuffix, response)
		resultCh <- g.failed(runID, spec.Filename, "no code block found in model response")
		return
	}

	saved, path := filesystem.SaveRunFile(g.generatedRoot, runID, spec.Filename, code)
	if !saved {
		resultCh <- g.failed(runID, spec.Filename, "could not save generated file")
		return
	}

	result := types.GenerationResult{Filename: spec.Filename, Status: types.StatusSuccess, Path: path}
	g.bus.Publish(events.EventTypeFileCompleted, runID, result)
	resultCh <- result
}

func (g *Generator) failed(runID, filename, detail string) types.GenerationResult {
	result := types.GenerationResult{Filename: filename, Status: types.StatusFailed, Error: detail}
	g.bus.Publish(events.EventTypeFileCompleted, runID, result)
	return result
}

// aggregate renders the multi-line run summary and selects the preview
// target: index.html always wins; otherwise the first successful HTML
// file in completion order; no successful HTML file means no link.
func (g *Generator) aggregate(runID string, results []types.GenerationResult) (string, string) {
	var succeeded, failed int
	var lines []string

	for _, r := range results {
		switch r.Status {
		case types.StatusSuccess:
			succeeded++
			lines = append(lines, fmt.Sprintf("[SUCCESS] %s -> %s", r.Filename, r.Path))
		default:
			failed++
			lines = append(lines, fmt.Sprintf("[FAILED] %s: %s", r.Filename, r.Error))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generation summary for run %s: %d succeeded, %d failed\n", runID, succeeded, failed)
	b.WriteString(strings.Join(lines, "\n"))

	previewLink := ""
	if target := selectPreviewTarget(results); target != "" {
		previewLink = fmt.Sprintf("/api/preview/%s/%s", runID, target)
		fmt.Fprintf(&b, "\nPreview: %s", previewLink)
	}

	return b.String(), previewLink
}

// selectPreviewTarget picks the file representing the run's output.
func selectPreviewTarget(results []types.GenerationResult) string {
	target := ""
	for _, r := range results {
		if r.Status != types.StatusSuccess {
			continue
		}
		if strings.EqualFold(r.Filename, "index.html") {
			return r.Filename
		}
		lower := strings.ToLower(r.Filename)
		if target == "" && (strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")) {
			target = r.Filename
		}
	}
	return target
}
