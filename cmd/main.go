package main

import (
	"os"
	"os/signal"
	"syscall"

	"hermes/internal/bootstrap"
	"hermes/pkg/logger"
)

func main() {
	container := bootstrap.NewContainer()
	container.MustInit()
	defer logger.Sync()

	if err := container.Start(); err != nil {
		container.Log.Fatalf("Failed to start: %v", err)
	}

	waitForShutdown(container)
}

// waitForShutdown blocks until SIGINT/SIGTERM, then shuts the container down.
func waitForShutdown(container *bootstrap.Container) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		container.Log.Infof("Received signal: %v", sig)
	case <-container.Context.Done():
		container.Log.Info("Context cancelled")
	}

	container.Shutdown()
}
