package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alantheprice/siteforge/pkg/stages"
	"github.com/spf13/cobra"
)

var (
	distributePlanFile   string
	distributeOutputFile string
	distributeMaxTokens  int
	distributeTemp       float64
)

func init() {
	distributeCmd.Flags().StringVarP(&distributePlanFile, "plan", "p", "", "File holding the development plan (required)")
	distributeCmd.Flags().StringVarP(&distributeOutputFile, "output", "o", "distribution.json", "File to write the distribution payload to")
	distributeCmd.Flags().IntVar(&distributeMaxTokens, "max-tokens", 0, "Max tokens for the distribution call (default from config)")
	distributeCmd.Flags().Float64Var(&distributeTemp, "temperature", -1, "Temperature for the distribution call (default from config)")
	_ = distributeCmd.MarkFlagRequired("plan")
}

var distributeCmd = &cobra.Command{
	Use:   "distribute",
	Short: "Split a plan into shared memory and per-file prompts",
	Long: `Runs the distribution stage: one model call splitting a development
plan into a shared memory context plus one generation prompt per file.
The result is written as a JSON hand-off payload for the generate stage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDistribute()
	},
}

func runDistribute() error {
	planData, err := os.ReadFile(distributePlanFile)
	if err != nil {
		return fmt.Errorf("failed to read plan: %w", err)
	}

	cfg, client, err := loadStack()
	if err != nil {
		return err
	}

	distributor := stages.NewDistributor(client)
	result := distributor.Distribute(context.Background(), string(planData), callOptions(cfg, distributeMaxTokens, distributeTemp))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal distribution: %w", err)
	}
	if err := os.WriteFile(distributeOutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write distribution: %w", err)
	}

	if result.Error != "" {
		fmt.Printf("Distribution completed with error: %s\n", result.Error)
	}
	fmt.Printf("Distribution with %d file prompts written to %s\n", len(result.Prompts), distributeOutputFile)
	return nil
}
