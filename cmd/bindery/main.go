package main

import (
	"os"

	"github.com/chaek-labs/bindery-cli/internal/adapters/driven/config/file"
	"github.com/chaek-labs/bindery-cli/internal/adapters/driven/storage/sqlite"
	"github.com/chaek-labs/bindery-cli/internal/adapters/driving/cli"
	"github.com/chaek-labs/bindery-cli/internal/core/ports/driven"
	"github.com/chaek-labs/bindery-cli/internal/logger"
)

func main() {
	config, err := file.NewConfigStore("")
	if err != nil {
		logger.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	// A broken history database degrades to no history rather than
	// blocking conversions.
	var history driven.HistoryStore
	if store, err := sqlite.NewStore(""); err != nil {
		logger.Warn("Conversion history unavailable: %v", err)
	} else {
		history = store
		defer store.Close()
	}

	if err := cli.Execute(cli.Dependencies{Config: config, History: history}); err != nil {
		os.Exit(1)
	}
}
