package cmd

import (
	"context"
	"log"
	"portfolio-dashboard/config"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo user, portfolio and sample holdings",
	Run: func(cmd *cobra.Command, args []string) {
		appDep, err := NewAppDependency()
		if err != nil {
			log.Fatalf("Failed to create app dependency: %v", err)
		}
		defer appDep.Close()

		if appDep.cfg.Storage.Driver == config.StorageDriverMemory {
			appDep.log.Warn("Seeding the memory store only lasts for this process; use storage.driver=postgres")
		}

		services, err := appDep.Services()
		if err != nil {
			log.Fatalf("Failed to create services: %v", err)
		}

		if err := services.PortfolioService.SeedDemoData(context.Background()); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	},
}
