package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockpulse/internal/app"
	"stockpulse/internal/config"
	"stockpulse/internal/httpapi"
	"stockpulse/internal/util"
	"stockpulse/internal/view"
)

func main() {
	_ = godotenv.Load(".env")

	// Load config.
	cfg, err := config.LoadOptional(os.Getenv("STOCKPULSE_CONFIG"))
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// Setup logging.
	logFileName := fmt.Sprintf("/tmp/stockpulse-server-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("opening log file: %v", err)
	}
	defer logFile.Close()

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format, io.MultiWriter(os.Stdout, logFile))
	util.SetDefault(logger)

	deps, err := app.Open(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer deps.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Mount the polled pages.
	dash := view.NewDashboard(deps.Client, logger, deps.DashboardOptions()...)
	stocks := view.NewStocks(deps.Client, logger)

	hub := httpapi.NewHub(logger)
	subID, states := dash.Subscribe(64)
	go hub.Run(ctx, states)

	dashMount := view.Mount(ctx, dash, cfg.Poll.Interval)
	stocksMount := view.Mount(ctx, stocks, cfg.Poll.Interval)

	opts := []httpapi.Option{
		httpapi.WithFallback(deps.Fallback),
		httpapi.WithRefresh(dashMount.RefreshNow),
	}
	if deps.Archive != nil {
		opts = append(opts, httpapi.WithArchive(deps.Archive))
	}
	srv := httpapi.NewServer(deps.Client, dash, stocks, hub, logger, opts...)

	// Start HTTP server.
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: srv.Handler(),
	}

	go func() {
		logger.Info("stockpulse server listening", "addr", httpServer.Addr, "poll", cfg.Poll.Interval)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down stockpulse server")

	dashMount.Unmount()
	stocksMount.Unmount()
	dash.Unsubscribe(subID)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
