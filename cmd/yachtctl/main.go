package main

import (
	"os"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "yachtctl",
	Short: "YachtExcel fleet management server and tools",
	Long: `yachtctl runs the YachtExcel API server and provides the database,
configuration and role administration commands that go with it.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
