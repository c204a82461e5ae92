package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/alantheprice/siteforge/pkg/types"
)

func TestBannerTitleTruncatesOnRunes(t *testing.T) {
	long := strings.Repeat("héllo wörld ", 10)
	title := bannerTitle(long)

	if !utf8.ValidString(title) {
		t.Fatalf("truncated title is not valid UTF-8: %q", title)
	}
	if !strings.HasSuffix(title, "...") {
		t.Fatalf("long title not truncated: %q", title)
	}
	if got := len([]rune(strings.TrimSuffix(title, "..."))); got != 60 {
		t.Errorf("truncated title rune length = %d, want 60", got)
	}
}

func TestBannerTitleShortRequest(t *testing.T) {
	if got := bannerTitle("tiny site"); got != "Tiny Site" {
		t.Errorf("bannerTitle(%q) = %q", "tiny site", got)
	}
}

func TestSaveIntermediatesWritesHandoffRecords(t *testing.T) {
	root := t.TempDir()
	plan := types.PlanResult{Plan: "1. index.html - landing page"}
	dist := types.DistributeResult{
		Memory:  "shared memory",
		Prompts: []types.FilePromptSpec{{Filename: "index.html", URL: "index.html", Prompt: "landing page"}},
	}

	if err := saveIntermediates(root, "run1", plan, dist); err != nil {
		t.Fatalf("saveIntermediates() error = %v", err)
	}

	planData, err := os.ReadFile(filepath.Join(root, "run1", "plan.json"))
	if err != nil {
		t.Fatalf("plan.json not written: %v", err)
	}
	var gotPlan types.PlanResult
	if err := json.Unmarshal(planData, &gotPlan); err != nil {
		t.Fatalf("plan.json is not valid JSON: %v", err)
	}
	if gotPlan.Plan != plan.Plan {
		t.Errorf("plan round-trip = %q, want %q", gotPlan.Plan, plan.Plan)
	}

	distData, err := os.ReadFile(filepath.Join(root, "run1", "distribution.json"))
	if err != nil {
		t.Fatalf("distribution.json not written: %v", err)
	}
	var gotDist types.DistributeResult
	if err := json.Unmarshal(distData, &gotDist); err != nil {
		t.Fatalf("distribution.json is not valid JSON: %v", err)
	}
	if gotDist.Memory != dist.Memory || len(gotDist.Prompts) != 1 {
		t.Errorf("distribution round-trip = %+v", gotDist)
	}
}
