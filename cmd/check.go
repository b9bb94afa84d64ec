package cmd

import (
	"os"

	"github.com/Saikiran1923/Aura-x/pkg/llm"
	"github.com/Saikiran1923/Aura-x/pkg/prompts"
	"github.com/Saikiran1923/Aura-x/pkg/pythonruntime"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the Ollama server, the configured model and the Python interpreter",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		ok := color.New(color.FgGreen)
		bad := color.New(color.FgRed)
		failed := false

		client, err := llm.NewClient(cfg)
		if err != nil {
			return err
		}
		if err := client.CheckServer(ctx); err != nil {
			bad.Fprintln(os.Stdout, prompts.ServerUnavailable(cfg.OllamaBaseURL, err))
			return ErrReported
		}
		ok.Fprintln(os.Stdout, prompts.ServerReachable(cfg.OllamaBaseURL))

		found, available, err := client.CheckModel(ctx, cfg.Model)
		switch {
		case err != nil:
			bad.Fprintln(os.Stdout, err)
			failed = true
		case found:
			ok.Fprintln(os.Stdout, prompts.ModelAvailable(client.Model()))
		default:
			bad.Fprintln(os.Stdout, prompts.ModelMissing(client.Model(), available))
			failed = true
		}

		interp, err := pythonruntime.Resolve(cfg.PythonPath)
		if err != nil {
			bad.Fprintln(os.Stdout, err)
			failed = true
		} else {
			ok.Fprintf(os.Stdout, "Interpreter: %s\n", interp)
		}

		if failed {
			return ErrReported
		}
		return nil
	},
}
