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

// Distributor splits a plan into the shared memory context plus one
// generation prompt spec per file, via one model call and one parse.
type Distributor struct {
	client llm.Client
}

// NewDistributor creates a distribution stage backed by the given client.
func NewDistributor(client llm.Client) *Distributor {
	return &Distributor{client: client}
}

// Distribute performs the distribution call and parses the response into
// (memory, prompt specs). The Prompts slice is always non-nil; failure
// states are reported through the Error field alongside whatever partial
// memory was recovered.
func (d *Distributor) Distribute(ctx context.Context, plan string, opts llm.Options) types.DistributeResult {
	logger := logging.GetLogger()
	empty := make([]types.FilePromptSpec, 0)

	if strings.TrimSpace(plan) == "" {
		logger.Log("Distribution stage called with empty plan")
		return types.DistributeResult{Prompts: empty, Error: "plan is empty"}
	}

	logger.LogProcessStep("Distributing: splitting plan into per-file prompts")

	response, err := d.client.Invoke(ctx, prompts.BuildDistributorPrompt(plan), opts)
	if err != nil {
		logger.LogError(err)
		return types.DistributeResult{Prompts: empty, Error: llm.ErrorText(err)}
	}

	response = parser.StripReasoning(response)
	if llm.IsErrorText(response) {
		return types.DistributeResult{Prompts: empty, Error: response}
	}

	memory, specs := parser.ExtractDistribution(response)

	result := types.DistributeResult{Memory: memory, Prompts: specs}
	switch {
	case memory == "" && len(specs) == 0:
		result.Error = "distributor response contained no memory block and no prompt blocks"
	case memory == "":
		result.Error = "distributor response contained no memory block"
	case len(specs) == 0:
		result.Error = "distributor response contained no valid prompt blocks"
	}
	if result.Error != "" {
		logger.Logf("Distribution stage parse failure: %s", result.Error)
	} else {
		logger.Logf("Distribution produced %d file prompts", len(specs))
	}
	return result
}
