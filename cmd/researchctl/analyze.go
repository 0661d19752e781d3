package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"research-data-pipeline/internal/pipeline"
)

var analyzeType string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <cleaned-file.csv>",
	Short: "Run statistical analysis over a cleaned CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detection := pipeline.DetectDatasetType(args[0], analyzeType)
		result := pipeline.AnalyzeCleanedFile(args[0], detection.DatasetType)
		if err := printJSON(result); err != nil {
			return err
		}
		if errMsg, failed := result["error"].(string); failed {
			return fmt.Errorf("analysis failed: %s", errMsg)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeType, "type", "", "dataset type (thesis or papers, auto-detected when empty)")
	rootCmd.AddCommand(analyzeCmd)
}
