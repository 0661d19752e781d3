package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "research-data-pipeline/docs"
	"research-data-pipeline/internal/api/handler"
	"research-data-pipeline/pkg/router"
)

func RegisterRoutes(r *router.Router, a *handler.API) {
	r.POST("/api/v1/upload", a.UploadCSV)

	r.POST("/api/v1/tasks", a.CreateTask)
	r.GET("/api/v1/tasks", a.ListTasks)
	r.GET("/api/v1/tasks/:id/status", a.GetTaskStatus)

	r.GET("/api/v1/agents", a.ListAgents)
	r.GET("/api/v1/agents/:name/logs", a.GetAgentLogs)

	r.GET("/api/v1/status", a.GetStatus)
	r.GET("/api/v1/results", a.ListResults)
	r.GET("/api/v1/analysis/:datasetType", a.GetAnalysis)

	r.POST("/api/v1/pipeline/run", a.RunPipeline)
	r.GET("/api/v1/pipeline/structure", a.GetPipelineStructure)

	r.GET("/api/v1/data/processed", a.ListProcessedFiles)
	r.GET("/api/v1/data/processed/:filename/metadata", a.GetProcessedMetadata)
	r.GET("/api/v1/history", a.ListHistory)
	r.GET("/api/v1/exports", a.ListExports)

	r.Mount("/swagger", httpSwagger.WrapHandler)
}
