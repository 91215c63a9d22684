package main

import (
	"fmt"
	"log"

	"filedepot/internal/config"
	"filedepot/internal/logger"
	"filedepot/internal/server"
	"filedepot/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	srv, err := server.New(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid section configuration")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	logger.Infof("Starting filedepot %s on %s, %d sections under %s",
		version.Get().String(), addr, len(cfg.Sections), cfg.Root)

	if err := srv.Run(addr); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to start server")
	}
}
