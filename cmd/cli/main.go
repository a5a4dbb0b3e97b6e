package main

import (
	"fmt"
	"os"

	"github.com/nimasrn/trade-ledger/pkg/logger"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error("command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
