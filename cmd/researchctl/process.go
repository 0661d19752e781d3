package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	processType             string
	processRowThreshold     float64
	processColThreshold     float64
	processOutlierMethod    string
	processOutlierThreshold float64
)

var processCmd = &cobra.Command{
	Use:   "process <file.csv>",
	Short: "Clean a CSV file and export the processed result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		processor, db, err := newProcessor()
		if err != nil {
			return err
		}
		defer db.Close()

		if cmd.Flags().Changed("row-threshold") {
			processor.Config.RowThreshold = processRowThreshold
		}
		if cmd.Flags().Changed("col-threshold") {
			processor.Config.ColThreshold = processColThreshold
		}
		if cmd.Flags().Changed("outlier-method") {
			processor.Config.OutlierMethod = processOutlierMethod
		}
		if cmd.Flags().Changed("outlier-threshold") {
			processor.Config.OutlierThreshold = processOutlierThreshold
		}

		result := processor.ProcessUploadedCSV(args[0], processType)
		if err := printJSON(result); err != nil {
			return err
		}
		if errMsg, failed := result["error"].(string); failed {
			return fmt.Errorf("processing failed: %s", errMsg)
		}
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processType, "type", "", "dataset type (thesis or papers, auto-detected when empty)")
	processCmd.Flags().Float64Var(&processRowThreshold, "row-threshold", 0.5, "null fraction above which rows are dropped")
	processCmd.Flags().Float64Var(&processColThreshold, "col-threshold", 0.5, "null fraction above which columns are dropped")
	processCmd.Flags().StringVar(&processOutlierMethod, "outlier-method", "iqr", "outlier method: iqr or zscore")
	processCmd.Flags().Float64Var(&processOutlierThreshold, "outlier-threshold", 1.5, "outlier threshold (IQR multiplier or z-score cutoff)")
	rootCmd.AddCommand(processCmd)
}
