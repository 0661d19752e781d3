package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"research-data-pipeline/internal/config"
	"research-data-pipeline/internal/pipeline"
	"research-data-pipeline/internal/store"
	"research-data-pipeline/pkg/utils"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "researchctl",
	Short: "Clean and analyze research dataset CSVs from the command line",
	Long: `researchctl runs the same ingestion and analysis pipeline as the API
server, printing JSON results to stdout.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func loadConfig() {
	c, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️ Failed to load config, using defaults: %v\n", err)
		c, _ = config.Load("")
	}
	cfg = c
}

// newProcessor builds a processor backed by the configured store. The
// caller must Close the returned store.
func newProcessor() (*pipeline.Processor, *store.Store, error) {
	output := utils.NewOutputManager(cfg.DataDir)
	if err := output.EnsureDirs(); err != nil {
		return nil, nil, err
	}
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	p := pipeline.NewProcessor(output, db)
	p.Config = cfg.Cleaning.Model()
	return p, db, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(utils.Sanitize(v))
}
