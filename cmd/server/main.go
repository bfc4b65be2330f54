package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"csv-analyzer/internal/analysis"
	"csv-analyzer/internal/api"
	"csv-analyzer/internal/config"
	"csv-analyzer/internal/llm"
	"csv-analyzer/internal/logger"
	"csv-analyzer/internal/observability"
	"csv-analyzer/internal/service"
	"csv-analyzer/internal/state"
)

var (
	envFile  string
	flagPort string
)

var rootCmd = &cobra.Command{
	Use:           "csv-analyzer",
	Short:         "CSV Analyzer: upload a CSV and ask questions about it",
	Long:          `CSV Analyzer serves an HTTP API that loads a tabular dataset, suggests relevant analyses for a question and answers it with a Gemini model.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = flagPort
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "dotenv file to read (default is ./.env when present)")
	rootCmd.Flags().StringVar(&flagPort, "port", "", "listen port (overrides PORT)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}

	// Initialize Services
	llmService, err := llm.NewService(ctx, llm.Config{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.LLMTimeout(),
		RPM:     cfg.LLMRPM,
	})
	if err != nil {
		return fmt.Errorf("init llm client: %w", err)
	}
	if !llmService.Configured() {
		logger.Log.Warn("⚠️ GEMINI_API_KEY not set, /chat will answer with an error")
	}

	metrics := observability.NewCollector("csv_analyzer")
	appState := state.NewAppState()
	loadSample(appState, metrics, cfg.SampleCSV)

	var db service.DataSource
	if cfg.DatabaseURL != "" {
		pg, err := service.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer pg.Close()
		db = pg
		logger.Log.Info("🗄️ Database source connected")
	}

	// Initialize Handler
	handler := api.NewHandler(appState, service.NewDashboardService(), llmService, db, metrics, cfg.MaxUploadBytes())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(handler, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Log.Infof("🚀 Starting CSV Analyzer on http://localhost:%s", cfg.Port)
	logger.Log.Infof("📡 CORS enabled for: %v", cfg.CORSOrigins)
	logger.Log.Infof("🤖 Model: %s", llmService.Model())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Log.Info("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadSample preloads the sample dataset. A missing or unreadable file only
// leaves the server without data.
func loadSample(st *state.AppState, metrics *observability.Collector, path string) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Log.Warnf("⚠️ Could not open sample CSV %s: %v", path, err)
		}
		return
	}
	defer f.Close()

	ds, err := analysis.ParseCSV(f, path)
	metrics.RecordDatasetLoad("sample", rowsOf(ds), err)
	if err != nil {
		logger.Log.Warnf("⚠️ Could not parse sample CSV %s: %v", path, err)
		return
	}
	st.Replace(ds)
	logger.Log.Infof("📁 Sample dataset %s loaded (%d rows)", path, ds.Rows())
}

func rowsOf(ds *analysis.Dataset) int {
	if ds == nil {
		return 0
	}
	return ds.Rows()
}
