// Package prompts builds the instruction prompts for each pipeline stage.
package prompts

import (
	"fmt"
	"strings"

	"github.com/alantheprice/siteforge/pkg/types"
)

// tailwindSnippet is the styling-library inclusion the generation prompts
// direct the model to embed in HTML pages.
const tailwindSnippet = `<script src="https://cdn.tailwindcss.com"></script>`

// BuildPlannerPrompt wraps a user request into a single planning
// instruction asking for a structured, file-structure-aware build plan.
func BuildPlannerPrompt(userRequest string) string {
	return fmt.Sprintf(`You are a senior web developer planning a static website build.

User request:
%s

Produce a structured development plan for the website. The plan must include:
1. A short summary of the site's purpose and audience.
2. The complete file structure: every file to be created, with its relative path (e.g. index.html, css/style.css, js/main.js).
3. For each file, a description of its content and responsibilities.
4. Framework and styling choices (prefer plain HTML/CSS/JS with Tailwind via CDN).
5. Shared design decisions: color palette, typography, navigation structure.

Respond with the plan only, formatted in markdown.`, strings.TrimSpace(userRequest))
}

// BuildDistributorPrompt wraps a plan into the distribution instruction:
// one <memory> block of shared context, then one <prompt> block per file.
func BuildDistributorPrompt(plan string) string {
	return fmt.Sprintf(`You are splitting a website development plan into per-file generation tasks.

Development plan:
%s

Respond with EXACTLY the following structure and nothing else:

First, one memory block holding the shared design context every file needs
(framework choices, styling conventions, color palette, navigation structure,
how the files reference each other):

<memory>
...shared design context...
</memory>

Then, for EVERY file named in the plan, one prompt block:

<prompt filename="relative/path.ext">
...detailed, self-sufficient instructions for generating this one file...
</prompt>

Rules:
- The filename attribute must be the file's relative path from the plan.
- Each prompt block must contain ONLY instructions, never file content.
- Each prompt block's instructions must be complete on their own; do not
  reference other prompt blocks.
- End every prompt block with this directive: "Respond with a single fenced
  code block containing only the complete file content."`, strings.TrimSpace(plan))
}

// BuildGenerationPrompt combines the shared memory with one file's
// instructions into a single-file generation prompt.
func BuildGenerationPrompt(memory string, spec types.FilePromptSpec) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are generating one file of a static website.

Shared design context for the whole site:
%s

File to generate: %s

Instructions for this file:
%s

`, strings.TrimSpace(memory), spec.Filename, strings.TrimSpace(spec.Prompt))

	if isHTMLFile(spec.Filename) {
		fmt.Fprintf(&b, "Include this snippet in the <head> of the page:\n%s\n\n", tailwindSnippet)
	}

	b.WriteString("Respond with ONLY a single fenced code block containing the complete file content. No explanation before or after the code block.")
	return b.String()
}

func isHTMLFile(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}
