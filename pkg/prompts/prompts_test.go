package prompts

import (
	"strings"
	"testing"

	"github.com/alantheprice/siteforge/pkg/types"
)

func TestBuildPlannerPromptEmbedsRequest(t *testing.T) {
	prompt := BuildPlannerPrompt("  a bakery website  ")
	if !strings.Contains(prompt, "a bakery website") {
		t.Error("request not embedded")
	}
	if !strings.Contains(prompt, "file structure") {
		t.Error("prompt should ask for a file-structure-aware plan")
	}
}

func TestBuildDistributorPromptContract(t *testing.T) {
	prompt := BuildDistributorPrompt("the plan body")
	for _, want := range []string{
		"the plan body",
		"<memory>",
		"</memory>",
		`<prompt filename="relative/path.ext">`,
		"ONLY instructions",
		"fenced",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("distributor prompt missing %q", want)
		}
	}
}

func TestBuildGenerationPromptStylingPolicy(t *testing.T) {
	spec := types.FilePromptSpec{Filename: "index.html", Prompt: "Build the landing page."}
	prompt := BuildGenerationPrompt("shared context", spec)

	if !strings.Contains(prompt, "shared context") {
		t.Error("memory not embedded")
	}
	if !strings.Contains(prompt, "Build the landing page.") {
		t.Error("file instructions not embedded")
	}
	if !strings.Contains(prompt, "cdn.tailwindcss.com") {
		t.Error("HTML targets must get the styling snippet directive")
	}

	cssSpec := types.FilePromptSpec{Filename: "css/style.css", Prompt: "Build the stylesheet."}
	cssPrompt := BuildGenerationPrompt("shared context", cssSpec)
	if strings.Contains(cssPrompt, "cdn.tailwindcss.com") {
		t.Error("non-HTML targets must not get the styling snippet directive")
	}
	if !strings.Contains(cssPrompt, "single fenced code block") {
		t.Error("generation prompt must demand a single fenced code block")
	}
}
