// Package parser extracts structured fragments from free-text model output:
// the shared <memory> block, per-file <prompt> blocks, and fenced code
// blocks. All functions are pure pattern matching over the input text.
package parser

import (
	"regexp"
	"strings"

	"github.com/alantheprice/siteforge/pkg/logging"
	"github.com/alantheprice/siteforge/pkg/types"
)

var (
	// memoryRegex matches exactly one <memory>...</memory> region,
	// case-insensitive and spanning newlines.
	memoryRegex = regexp.MustCompile(`(?is)<memory>(.*?)</memory>`)

	// promptRegex matches <prompt ...attrs...>...</prompt> regions in
	// document order. Attributes are parsed separately so filename and
	// url may appear in any order.
	promptRegex       = regexp.MustCompile(`(?is)<prompt\s+([^>]*)>(.*?)</prompt>`)
	filenameAttrRegex = regexp.MustCompile(`(?i)filename\s*=\s*"([^"]*)"`)
	urlAttrRegex      = regexp.MustCompile(`(?i)url\s*=\s*"([^"]*)"`)

	// codeFenceRegex captures the inner content of the first fenced code
	// block, with an optional language tag on the opening fence.
	codeFenceRegex = regexp.MustCompile("(?s)```[a-zA-Z0-9_+\\-]*[ \t]*\n?(.*?)```")
)

// reasoningEndMarker terminates a reasoning preamble some models emit
// before their final answer. Matching is case-sensitive, first occurrence.
const reasoningEndMarker = "</think>"

// codeLeadingTokens are prefixes that mark unfenced text as a best-effort
// code payload (declaration and import markers, comment openers).
var codeLeadingTokens = []string{
	"<!DOCTYPE", "<!doctype",
	"import ", "export ", "from ",
	"function ", "const ", "let ", "var ",
	"package ", "def ", "class ",
	"/*", "//", "@import", "@media", ":root",
}

// StripReasoning removes everything up to and including the first
// </think> marker. Without a marker the trimmed input is returned as-is.
func StripReasoning(response string) string {
	if idx := strings.Index(response, reasoningEndMarker); idx != -1 {
		return strings.TrimSpace(response[idx+len(reasoningEndMarker):])
	}
	return strings.TrimSpace(response)
}

// ExtractMemory returns the trimmed inner text of the <memory> block and
// whether one was found. Absence is reported, not an error.
func ExtractMemory(response string) (string, bool) {
	m := memoryRegex.FindStringSubmatch(response)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ExtractPromptSpecs returns every well-formed <prompt> block as a
// FilePromptSpec, preserving document order. Blocks missing a filename or
// with empty inner content are skipped and logged, never fatal. The
// returned slice is always non-nil.
func ExtractPromptSpecs(response string) []types.FilePromptSpec {
	logger := logging.GetLogger()
	specs := make([]types.FilePromptSpec, 0)

	for _, m := range promptRegex.FindAllStringSubmatch(response, -1) {
		attrs, body := m[1], strings.TrimSpace(m[2])

		var filename string
		if fm := filenameAttrRegex.FindStringSubmatch(attrs); fm != nil {
			filename = strings.TrimSpace(fm[1])
		}
		if filename == "" {
			logger.Logf("Skipping prompt block with missing filename attribute (attrs: %q)", attrs)
			continue
		}
		if body == "" {
			logger.Logf("Skipping prompt block for %s: empty instructions", filename)
			continue
		}

		url := filename
		if um := urlAttrRegex.FindStringSubmatch(attrs); um != nil && strings.TrimSpace(um[1]) != "" {
			url = strings.TrimSpace(um[1])
		}

		specs = append(specs, types.FilePromptSpec{
			Filename: filename,
			URL:      url,
			Prompt:   body,
		})
	}

	if len(specs) == 0 {
		logger.Log("No valid prompt blocks found in distributor response")
	}
	return specs
}

// ExtractDistribution runs memory and prompt extraction over one
// distributor response. Either part may legitimately be absent.
func ExtractDistribution(response string) (memory string, specs []types.FilePromptSpec) {
	memory, found := ExtractMemory(response)
	if !found {
		logging.GetLogger().Log("No memory block found in distributor response")
	}
	return memory, ExtractPromptSpecs(response)
}

// ExtractCodeBlock returns the trimmed content of the first fenced code
// block in the response. When no fence exists it falls back to treating
// the full response as code if it starts like code; otherwise it reports
// not found. An explicitly empty fence is also not found.
func ExtractCodeBlock(response string) (string, bool) {
	logger := logging.GetLogger()

	if m := codeFenceRegex.FindStringSubmatch(response); m != nil {
		code := strings.TrimSpace(m[1])
		if code == "" {
			logger.Log("Code fence found but block is empty")
			return "", false
		}
		return code, true
	}

	trimmed := strings.TrimSpace(response)
	if looksLikeCode(trimmed) {
		logger.Log("No code fence found; using full response as best-effort code payload")
		return trimmed, true
	}

	logger.Log("No code fence found in model response")
	return "", false
}

func looksLikeCode(text string) bool {
	if text == "" {
		return false
	}
	if strings.HasPrefix(text, "<") {
		return true
	}
	for _, tok := range codeLeadingTokens {
		if strings.HasPrefix(text, tok) {
			return true
		}
	}
	return false
}
