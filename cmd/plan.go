package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alantheprice/siteforge/pkg/stages"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	planMaxTokens   int
	planTemperature float64
	planOutputFile  string
)

func init() {
	planCmd.Flags().IntVar(&planMaxTokens, "max-tokens", 0, "Max tokens for the planning call (default from config)")
	planCmd.Flags().Float64Var(&planTemperature, "temperature", -1, "Temperature for the planning call (default from config)")
	planCmd.Flags().StringVarP(&planOutputFile, "output", "o", "", "File to write the plan to (default: stdout)")
}

var planCmd = &cobra.Command{
	Use:   "plan [request]",
	Short: "Produce a development plan from a request",
	Long: `Runs the planning stage: one model call turning a natural-language
website request into a structured, file-structure-aware build plan.

Examples:
  siteforge plan "Portfolio site for a photographer"
  siteforge plan -o plan.md "Landing page for a coffee shop"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(args)
	},
}

func runPlan(args []string) error {
	var request string
	if len(args) > 0 {
		request = args[0]
	} else {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("no request given and stdin is not a terminal")
		}
		fmt.Print("Describe the website you want to build:\n\n")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		request = strings.TrimSpace(line)
		if request == "" {
			return fmt.Errorf("no request provided")
		}
	}

	cfg, client, err := loadStack()
	if err != nil {
		return err
	}

	planner := stages.NewPlanner(client)
	result := planner.Plan(context.Background(), request, callOptions(cfg, planMaxTokens, planTemperature))

	if planOutputFile != "" {
		if err := os.WriteFile(planOutputFile, []byte(result.Plan), 0644); err != nil {
			return fmt.Errorf("failed to write plan: %w", err)
		}
		fmt.Printf("Plan written to %s\n", planOutputFile)
		return nil
	}

	fmt.Println(result.Plan)
	return nil
}
