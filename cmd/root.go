package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "siteforge",
	Short: "LLM-driven website scaffold generator",
	Long: `Siteforge turns a natural-language request into a generated set of
website files through a three-stage model pipeline:

  plan        - Produce a development plan from a request
  distribute  - Split a plan into shared memory + per-file prompts
  generate    - Fan out one model call per file and write the results
  pipeline    - Run all three stages end to end
  serve       - Serve generated runs for preview

Each stage can also be run on its own, piping the previous stage's
payload in as a file.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(distributeCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(pipelineCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
