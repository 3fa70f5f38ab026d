package cmd

import (
	"context"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"portfolio-dashboard/internal/delivery/http"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the portfolio dashboard API",
	Run:   Start,
}

func Start(cmd *cobra.Command, args []string) {

	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency()
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	services, err := appDep.Services()
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}

	if err := services.PortfolioService.SeedDemoData(ctx); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	if err := services.SchedulerService.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	httpHandler := http.NewHttpAPIHandler(appDep.echo, appDep.validator, services, appDep.log)
	apiServer := NewHTTPServer(ctx, appDep, httpHandler)
	go func() {
		if err := apiServer.Start(); err != nil && err != httpNet.ErrServerClosed {
			appDep.log.Error("Failed to start HTTP server", zap.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	appDep.log.Info("Shutting down gracefully...")

	services.SchedulerService.Stop()

	if err := apiServer.Stop(); err != nil {
		appDep.log.Error("Failed to stop HTTP server", zap.Error(err))
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}
