package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"popdash/internal"
	"popdash/internal/config"
	"popdash/internal/container"
	"popdash/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	internal.Configure(appConfig.Logging.Level, appConfig.Logging.Format)
	logger := internal.DefaultLogger.Component("main")
	gin.SetMode(appConfig.Server.GinMode)

	c, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	server, err := ui.NewServer(c.Dashboard, appConfig, c.API)
	if err != nil {
		log.Fatalf("Failed to initialize UI server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the cache so a broken data file shows up in the logs at startup;
	// the dashboard still starts and serves the error panel
	if _, err := c.Store.Get(ctx); err != nil {
		logger.Warn("initial dataset load failed: %v", err)
	}

	addr := ":" + appConfig.Server.Port
	if err := server.Start(ctx, addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
