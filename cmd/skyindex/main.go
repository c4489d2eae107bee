// Command skyindex builds, inspects and queries tiered star catalogs.
package main

import (
	"os"

	"github.com/datatrails/go-datatrails-common/logger"
)

func main() {
	logger.New("INFO")
	err := rootCmd.Execute()
	logger.OnExit()
	if err != nil {
		os.Exit(1)
	}
}
