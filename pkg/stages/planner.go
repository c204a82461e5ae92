// Package stages implements the three pipeline stages: planning,
// distribution, and generation. Every stage operation returns a result
// payload carrying either valid data or an error description; callers
// detect failure by inspecting the payload, never by catching panics.
package stages

import (
	"context"
	"strings"

	"github.com/alantheprice/siteforge/pkg/llm"
	"github.com/alantheprice/siteforge/pkg/logging"
	"github.com/alantheprice/siteforge/pkg/parser"
	"github.com/alantheprice/siteforge/pkg/prompts"
	"github.com/alantheprice/siteforge/pkg/types"
)

// Planner turns a user request into a development plan with one model
// call. The plan is opaque text consumed by the Distributor.
type Planner struct {
	client llm.Client
}

// NewPlanner creates a planning stage backed by the given model client.
func NewPlanner(client llm.Client) *Planner {
	return &Planner{client: client}
}

// Plan performs the planning call. On any failure the Plan field carries
// an ERROR: description instead of a plan, since this result is piped
// directly into the next stage.
func (p *Planner) Plan(ctx context.Context, userRequest string, opts llm.Options) types.PlanResult {
	logger := logging.GetLogger()

	if strings.TrimSpace(userRequest) == "" {
		logger.Log("Planning stage called with empty user request")
		return types.PlanResult{Plan: "ERROR: user request is empty"}
	}

	logger.LogProcessStep("Planning: generating development plan")

	response, err := p.client.Invoke(ctx, prompts.BuildPlannerPrompt(userRequest), opts)
	if err != nil {
		logger.LogError(err)
		return types.PlanResult{Plan: llm.ErrorText(err)}
	}

	plan := parser.StripReasoning(response)
	if llm.IsErrorText(plan) {
		logger.Logf("Planning stage received error-shaped response: %s", plan)
	}
	return types.PlanResult{Plan: plan}
}
