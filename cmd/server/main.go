package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/agentfs/agentfs/internal/config"
	"github.com/agentfs/agentfs/internal/logging"
	"github.com/agentfs/agentfs/internal/server"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logging.NewDefault().Fatal("failed to load configuration", zap.Error(err))
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		logging.NewDefault().Fatal("failed to create logger", zap.Error(err))
	}
	defer logger.Sync()

	srv := server.New(cfg, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Info("shutting down gracefully")
		if err := srv.Close(); err != nil {
			logger.Error("error during shutdown", zap.Error(err))
		}
	case err := <-errChan:
		logger.Fatal("server error", zap.Error(err))
	}
}
