package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alantheprice/siteforge/pkg/events"
	"github.com/alantheprice/siteforge/pkg/filesystem"
	"github.com/alantheprice/siteforge/pkg/llm"
	"github.com/alantheprice/siteforge/pkg/stages"
	"github.com/alantheprice/siteforge/pkg/types"
	"github.com/alantheprice/siteforge/pkg/webui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	pipelineMaxTokens         int
	pipelineTemp              float64
	pipelineServe             bool
	pipelineKeepIntermediates bool
)

func init() {
	pipelineCmd.Flags().IntVar(&pipelineMaxTokens, "max-tokens", 0, "Max tokens per model call (default from config)")
	pipelineCmd.Flags().Float64Var(&pipelineTemp, "temperature", -1, "Temperature per model call (default from config)")
	pipelineCmd.Flags().BoolVar(&pipelineServe, "serve", false, "Start the preview server in-process and stream progress over /ws")
	pipelineCmd.Flags().BoolVar(&pipelineKeepIntermediates, "keep-intermediates", false, "Save plan.json and distribution.json into the run directory")
}

var pipelineCmd = &cobra.Command{
	Use:   "pipeline [request]",
	Short: "Run plan, distribute and generate end to end",
	Long: `Runs the full pipeline for one request: planning, distribution, and
concurrent per-file generation, then prints the run summary and preview
link. With --serve the preview server starts in-process, so connected
websocket clients see the run's progress events live.

Example:
  siteforge pipeline "Portfolio site for a photographer"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(args)
	},
}

func runPipeline(args []string) error {
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

	fmt.Printf("Building: %s\n\n", bannerTitle(request))

	ctx := context.Background()
	opts := callOptions(cfg, pipelineMaxTokens, pipelineTemp)
	runID := newRunID()

	bus := events.NewEventBus()
	stopProgress := watchProgress(bus, os.Stdout)

	var serveCtx context.Context
	if pipelineServe {
		var stopServe context.CancelFunc
		serveCtx, stopServe = signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stopServe()
		server := webui.NewPreviewServer(cfg.GeneratedRoot, cfg.PreviewPort, bus)
		go func() {
			if err := server.Start(serveCtx); err != nil {
				fmt.Printf("Preview server stopped: %v\n", err)
			}
		}()
	}

	plan := stages.NewPlanner(client).Plan(ctx, request, opts)
	if llm.IsErrorText(plan.Plan) {
		stopProgress()
		return fmt.Errorf("planning failed: %s", plan.Plan)
	}

	dist := stages.NewDistributor(client).Distribute(ctx, plan.Plan, opts)
	if dist.Error != "" {
		fmt.Printf("Distribution reported: %s\n", dist.Error)
	}

	result := stages.NewGenerator(client, cfg.GeneratedRoot, bus).Generate(ctx, dist.Memory, dist.Prompts, runID, opts)
	stopProgress()

	if pipelineKeepIntermediates {
		if err := saveIntermediates(cfg.GeneratedRoot, runID, plan, dist); err != nil {
			fmt.Printf("Could not save intermediates: %v\n", err)
		}
	}

	fmt.Println(result.Summary)
	if result.PreviewLink != "" {
		fmt.Printf("\nRun `siteforge serve` and open http://localhost:%d%s\n", cfg.PreviewPort, result.PreviewLink)
	}

	if pipelineServe {
		fmt.Printf("\nPreview server running on http://localhost:%d (Ctrl-C to stop)\n", cfg.PreviewPort)
		<-serveCtx.Done()
	}
	return nil
}

// bannerTitle renders the request as a short title line, truncating on
// runes so multibyte requests are never cut mid-character.
func bannerTitle(request string) string {
	title := cases.Title(language.English).String(request)
	if runes := []rune(title); len(runes) > 60 {
		title = string(runes[:60]) + "..."
	}
	return title
}

// saveIntermediates persists the stage hand-off payloads next to the
// run's generated artifacts so a run can be replayed or inspected.
func saveIntermediates(root, runID string, plan types.PlanResult, dist types.DistributeResult) error {
	planJSON, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode plan: %w", err)
	}
	if ok, _ := filesystem.SaveRunFile(root, runID, "plan.json", string(planJSON)); !ok {
		return fmt.Errorf("could not save plan.json for run %s", runID)
	}

	distJSON, err := json.MarshalIndent(dist, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode distribution: %w", err)
	}
	if ok, _ := filesystem.SaveRunFile(root, runID, "distribution.json", string(distJSON)); !ok {
		return fmt.Errorf("could not save distribution.json for run %s", runID)
	}
	return nil
}
