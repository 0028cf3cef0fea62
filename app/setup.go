package app

import (
	"fmt"
	"os"

	"github.com/Niwatda/softwareshop/api"
	"github.com/Niwatda/softwareshop/config"
	"github.com/Niwatda/softwareshop/database"
	"github.com/Niwatda/softwareshop/router"
	"github.com/Niwatda/softwareshop/services/cron"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Seed admin account and default catalog (idempotent)
	if os.Getenv("SEED_ENABLED") != "false" {
		seeder := database.NewSeeder(store.GetDB())
		if err := seeder.SeedAll(); err != nil {
			print("Warning: database seeding failed: ", err.Error(), "\n")
		}
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		cronManager = cron.NewCronManager(store.GetDB())
		if err := cronManager.Start(); err != nil {
			print("Warning: Failed to start cron jobs\n")
			print("Error: ", err.Error(), "\n")
			// Don't fail the app, just log the warning
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (security middleware is applied inside)
	router.SetupRoutes(app, store)

	// Get the PORT & Start the Server
	return server.Run()
}
