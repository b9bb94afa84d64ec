package cmd

import (
	"fmt"
	"os"

	"github.com/Saikiran1923/Aura-x/pkg/llm"
	"github.com/Saikiran1923/Aura-x/pkg/planner"
	"github.com/Saikiran1923/Aura-x/pkg/prompts"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var planFormatFlag string

var planCmd = &cobra.Command{
	Use:   "plan [request]",
	Short: "Print the validated plan for a request without writing files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if planFormatFlag != "json" && planFormatFlag != "yaml" {
			return fmt.Errorf("unsupported format %q (use json or yaml)", planFormatFlag)
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		request, err := readRequest(args, os.Stdin, os.Stderr, stdinIsTerminal())
		if err != nil {
			return err
		}

		logger := newLogger(cfg)
		defer logger.Close()
		logger.SetConsole(os.Stderr)

		ctx, stop := signalContext()
		defer stop()

		client, err := llm.NewClient(cfg, llm.WithLogger(logger))
		if err != nil {
			return err
		}
		p := planner.New(client, logger)

		logger.LogProcessStep(prompts.PlanningStarted(cfg.Model))
		plan, err := p.MakePlan(ctx, request)
		if err != nil && ctx.Err() == nil && planner.Repairable(err) {
			logger.LogProcessStep(prompts.PlanRejected(err.Error()))
			plan, err = p.RepairPlan(ctx, request, err)
		}
		if err != nil {
			return err
		}

		if planFormatFlag == "yaml" {
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(plan)
		}
		return writeJSON(os.Stdout, plan)
	},
}

func init() {
	planCmd.Flags().StringVarP(&planFormatFlag, "format", "f", "json", "output format: json or yaml")
}
