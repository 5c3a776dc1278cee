package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/api"
	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/pathstore"
	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/pipeline"
	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/source"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction API server",
	Long: `Start the HTTP API server.

Uploads are queued and extracted by a pool of workers. When a pathstore URL
is configured, finished documents are persisted there as well.

The server provides:
  - /health                          - Basic server health check
  - POST /api/extract                - Queue a document (multipart "file")
  - GET  /api/extract/{id}/status    - Job progress
  - GET  /api/extract/{id}/result    - Extracted document
  - GET  /api/stats/pages            - Page latency statistics

Examples:
  PDFEXTRACT_API_KEY=secret pdfextract serve
  PDFEXTRACT_API_KEY=secret pdfextract serve --port 3000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateServer(); err != nil {
			return err
		}
		ctx := cmd.Context()
		log := logger

		charts, release := chartReader(cfg, log)
		defer release()

		stats := pipeline.NewPageStats(cfg.StatsWindow)
		processor := pipeline.NewProcessor(pipeline.Options{
			PageWorkers: cfg.PageWorkers,
			Charts:      charts,
			Stats:       stats,
		}, log)

		var (
			store pipeline.ResultStore
			docs  api.DocumentStore
		)
		if cfg.PathstoreURL != "" {
			ps := pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
			defer ps.Close()
			store, docs = ps, ps
		}

		// Initialize pipeline.
		orch := pipeline.NewOrchestrator(cfg, pipeline.NewWorker(source.Open, processor, store, log), log)
		orch.Start(ctx)

		// Initialize HTTP server.
		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      api.NewServer(orch, stats, docs, log, cfg),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Graceful shutdown.
		go func() {
			<-ctx.Done()
			log.Info("shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		log.Info("starting pdfextract", "port", cfg.Port, "workers", cfg.WorkerCount, "page_workers", cfg.PageWorkers, "persistence", cfg.PathstoreURL != "")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			orch.Stop()
			return err
		}
		orch.Stop()
		return nil
	},
}

func init() {
	serveCmd.Flags().String("port", "8090", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
