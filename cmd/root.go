package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configPathFlag string
	modelFlag      string
	baseURLFlag    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aurax",
	Short: "Turn a project request into a running Python project with a local model",
	Long: `Aurax asks a local Ollama model to plan a small Python project, writes
the planned files, runs the entry point, and makes one automated repair
attempt if the run fails.

Available commands:
  run      - Plan, generate, execute and repair a project
  plan     - Print the plan for a request without writing anything
  check    - Verify the Ollama server, model and Python interpreter
  init     - Write a config file with the current settings
  version  - Print version information

Try: aurax run "a CLI that prints the first 20 primes"`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", defaultConfigPath(), "config file (JSON)")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Ollama model to use (overrides config and AURAX_OLLAMA_MODEL)")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Ollama server URL (overrides config and AURAX_OLLAMA_BASE_URL)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
}
