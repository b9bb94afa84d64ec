package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Saikiran1923/Aura-x/pkg/coder"
	"github.com/Saikiran1923/Aura-x/pkg/config"
	"github.com/Saikiran1923/Aura-x/pkg/debugger"
	"github.com/Saikiran1923/Aura-x/pkg/executor"
	"github.com/Saikiran1923/Aura-x/pkg/llm"
	"github.com/Saikiran1923/Aura-x/pkg/orchestration"
	"github.com/Saikiran1923/Aura-x/pkg/planner"
	"github.com/Saikiran1923/Aura-x/pkg/prompts"
	"github.com/Saikiran1923/Aura-x/pkg/utils"
	"github.com/Saikiran1923/Aura-x/pkg/workspace"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	runNameFlag string
	runJSONFlag bool
)

var runCmd = &cobra.Command{
	Use:   "run [request]",
	Short: "Plan, generate, execute and (once) repair a Python project",
	Long: `Sends the request to the planner, writes every planned file under
<projects-root>/<name>, runs the entry point, and on failure asks for one
corrected version of the entry file before running it again.

The request may be given as arguments; otherwise the first line of
standard input is used. Exit status is 0 only when the final run succeeds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		request, err := readRequest(args, os.Stdin, os.Stdout, stdinIsTerminal())
		if err != nil {
			return err
		}

		logger := newLogger(cfg)
		defer logger.Close()
		if runJSONFlag {
			logger.SetConsole(os.Stderr)
		}
		runID := uuid.NewString()
		logger.SetCorrelationID(runID)

		ctx, stop := signalContext()
		defer stop()

		orch, err := buildOrchestrator(cfg, logger, request)
		if err != nil {
			return err
		}
		logger.LogProcessStep(prompts.PlanningStarted(cfg.Model))
		report := orch.Run(ctx, orchestration.Request{Text: request, ProjectName: runNameFlag, RunID: runID})

		if runJSONFlag {
			if err := writeJSON(os.Stdout, report); err != nil {
				return err
			}
		} else {
			printReport(os.Stdout, report)
		}
		if !report.Succeeded() {
			logger.LogError(report.Err)
			return ErrReported
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runNameFlag, "name", "n", "", "project directory name (default: derived from the request)")
	runCmd.Flags().String("projects-root", "", "directory generated projects are written under")
	runCmd.Flags().Int("exec-timeout", 0, "seconds the generated program may run")
	runCmd.Flags().String("python", "", "interpreter used to run the generated program")
	runCmd.Flags().BoolVar(&runJSONFlag, "json", false, "print the run report as JSON")
}

// buildOrchestrator wires the pipeline stages to one generation client.
func buildOrchestrator(cfg *config.Config, logger *utils.Logger, request string) (*orchestration.Orchestrator, error) {
	client, err := llm.NewClient(cfg, llm.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	engine, err := executor.New(cfg, executor.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	fileCoder := coder.New(client, logger)
	fileCoder.Request = request
	fileCoder.Progress = func(index, total int, path string) {
		logger.LogProcessStep(prompts.GeneratingFile(index, total, path))
	}

	return orchestration.New(cfg, orchestration.Deps{
		Planner:      planner.New(client, logger),
		Materializer: fileCoder,
		Runner:       engine,
		Corrector:    debugger.New(client, logger),
	}, logger), nil
}

func printReport(w io.Writer, report *orchestration.Report) {
	status := color.New(color.FgGreen, color.Bold)
	if !report.Succeeded() {
		status = color.New(color.FgRed, color.Bold)
	}

	fmt.Fprintln(w)
	status.Fprintf(w, "Final state: %s\n", report.Status())
	if report.ProjectDir != "" {
		fmt.Fprintf(w, "Project: %s\n", report.ProjectDir)
	}
	if report.Entry != "" {
		fmt.Fprintf(w, "Entry: %s\n", report.Entry)
	}
	if len(report.Files) > 0 {
		printListing(w, report.ProjectDir)
	}
	if c := report.Correction; c != nil {
		fmt.Fprintf(w, "Correction applied to %s (%s)\n", c.File, c.Summary)
		if c.Summary.Text != "" {
			fmt.Fprint(w, indent(c.Summary.Text))
		}
	}
	if report.Succeeded() && report.Final != nil {
		if out := strings.TrimSpace(report.Final.Stdout); out != "" {
			fmt.Fprintln(w, "--- Program output ---")
			fmt.Fprintln(w, out)
			fmt.Fprintln(w, "----------------------")
		}
	}
	if !report.Succeeded() && report.Diagnostic != "" {
		fmt.Fprintln(w, "Diagnostic:")
		fmt.Fprintln(w, indent(report.Diagnostic))
	}
	fmt.Fprintf(w, "Run id: %s (%s)\n", report.RunID, report.Finished.Sub(report.Started).Round(time.Millisecond))
}

// printListing shows what is on disk now, which includes anything the program
// itself wrote, minus interpreter artifacts.
func printListing(w io.Writer, dir string) {
	files, err := workspace.ListFiles(dir)
	if err != nil || len(files) == 0 {
		return
	}
	fmt.Fprintln(w, "Files:")
	for _, f := range files {
		fmt.Fprintf(w, "  %s (%d bytes)\n", f.Path, f.Size)
	}
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
