package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alantheprice/siteforge/pkg/events"
	"github.com/alantheprice/siteforge/pkg/stages"
	"github.com/alantheprice/siteforge/pkg/types"
	"github.com/spf13/cobra"
)

var (
	generateDistFile  string
	generateRunID     string
	generateMaxTokens int
	generateTemp      float64
)

func init() {
	generateCmd.Flags().StringVarP(&generateDistFile, "distribution", "d", "", "Distribution JSON payload from the distribute stage (required)")
	generateCmd.Flags().StringVar(&generateRunID, "run-id", "", "Run identifier (default: generated)")
	generateCmd.Flags().IntVar(&generateMaxTokens, "max-tokens", 0, "Max tokens per generation call (default from config)")
	generateCmd.Flags().Float64Var(&generateTemp, "temperature", -1, "Temperature per generation call (default from config)")
	_ = generateCmd.MarkFlagRequired("distribution")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate files from a distribution payload",
	Long: `Runs the generation stage: one concurrent model call per file prompt,
code extraction, and persistence under <generated-root>/<run-id>/. Partial
failure is expected; the summary covers every file either way.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate()
	},
}

func runGenerate() error {
	data, err := os.ReadFile(generateDistFile)
	if err != nil {
		return fmt.Errorf("failed to read distribution: %w", err)
	}
	var dist types.DistributeResult
	if err := json.Unmarshal(data, &dist); err != nil {
		return fmt.Errorf("failed to parse distribution: %w", err)
	}

	cfg, client, err := loadStack()
	if err != nil {
		return err
	}

	runID := generateRunID
	if runID == "" {
		runID = newRunID()
	}

	bus := events.NewEventBus()
	stopProgress := watchProgress(bus, os.Stdout)

	generator := stages.NewGenerator(client, cfg.GeneratedRoot, bus)
	result := generator.Generate(context.Background(), dist.Memory, dist.Prompts, runID, callOptions(cfg, generateMaxTokens, generateTemp))
	stopProgress()

	fmt.Println(result.Summary)
	return nil
}
