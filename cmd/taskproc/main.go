package main

import (
	"fmt"
	"os"

	"github.com/toni6/taskproc/infrastructure/logger"
	"github.com/toni6/taskproc/internal/cli"
)

func main() {
	defer logger.Sync()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
