package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"research-data-pipeline/internal/agent"
	"research-data-pipeline/internal/api"
	"research-data-pipeline/internal/api/handler"
	"research-data-pipeline/internal/config"
	"research-data-pipeline/internal/orchestration"
	"research-data-pipeline/internal/pipeline"
	"research-data-pipeline/internal/store"
	"research-data-pipeline/pkg/router"
	"research-data-pipeline/pkg/utils"
)

// @title Research Data Pipeline API
// @version 1.0
// @description CSV ingestion, cleaning and analysis service for research datasets
// @BasePath /api/v1
func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	output := utils.NewOutputManager(cfg.DataDir)
	if err := output.EnsureDirs(); err != nil {
		log.Fatalf("❌ Failed to prepare data directories: %v", err)
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	processor := pipeline.NewProcessor(output, db)
	processor.Config = cfg.Cleaning.Model()

	coordinator := agent.NewCoordinator(db)
	coordinator.SetHistoryCap(cfg.HistoryCap)
	agent.RegisterDefaultAgents(coordinator, processor)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go coordinator.Start(ctx, cfg.SchedulerInterval)

	r := router.New()
	api.RegisterRoutes(r, &handler.API{
		Coordinator: coordinator,
		Processor:   processor,
		Executor:    orchestration.NewChainExecutor(processor),
		Store:       db,
		Output:      output,
	})

	if err := r.Serve(ctx, cfg.Addr); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
	log.Println("ℹ️ Server stopped")
}
