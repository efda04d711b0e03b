package main

import (
	"fmt"
	"log"
	"os"

	"github.com/vbonduro/photogrid/internal/config"
	"github.com/vbonduro/photogrid/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	err = newRootCmd(cfg, logger).Execute()
	cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
