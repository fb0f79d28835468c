package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"stackforge/cmd"
	"stackforge/logger"
)

func main() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	if err := logger.Initialize(level); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel in-flight work on SIGINT/SIGTERM so partial state gets saved
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	root := cmd.NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("Command failed",
			zap.Error(err),
		)
		os.Exit(1)
	}
}
