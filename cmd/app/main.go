package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/quantora/ledger/internal/bootstrap"
	"github.com/quantora/ledger/pkg/mzap"
)

func main() {
	_ = godotenv.Load()

	logger := mzap.InitializeLogger()

	service, err := bootstrap.InitServers(logger)
	if err != nil {
		logger.Errorf("Failed to initialize ledger service: %v", err)
		_ = logger.Sync()

		fmt.Fprintf(os.Stderr, "failed to initialize ledger service: %v\n", err)

		os.Exit(1)
	}

	service.Run()
}
