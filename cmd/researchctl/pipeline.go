package main

import (
	"github.com/spf13/cobra"

	"research-data-pipeline/internal/model"
	"research-data-pipeline/internal/orchestration"
)

var pipelineType string

var pipelineCmd = &cobra.Command{
	Use:   "pipeline <file.csv>",
	Short: "Run the full chain: clean, analyze, visualize, report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		processor, db, err := newProcessor()
		if err != nil {
			return err
		}
		defer db.Close()

		initial := model.PipelineState{
			model.StateInputFile: args[0],
		}
		if pipelineType != "" {
			initial[model.StateDatasetType] = pipelineType
		}

		executor := orchestration.NewChainExecutor(processor)
		final, err := executor.Run(cmd.Context(), initial)
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}(final))
	},
}

func init() {
	pipelineCmd.Flags().StringVar(&pipelineType, "type", "", "dataset type (thesis or papers, auto-detected when empty)")
	rootCmd.AddCommand(pipelineCmd)
}
