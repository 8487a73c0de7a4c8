package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yachtexcel/yachtexcel/pkg/config"
)

// configurationValidateCmd represents the configuration validate command
var configurationValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file and environment",
	Long: `Validate the current state of the configuration file and the environment
variables the server needs.

A running server reloads the config file when it changes; use this command
before editing it in place.

Example:
  yachtctl configuration validate`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateConfiguration(); err != nil {
			fmt.Fprintf(os.Stderr, "Configuration is invalid: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Configuration is valid")
	},
}

func init() {
	configurationCmd.AddCommand(configurationValidateCmd)
}

func validateConfiguration() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	fmt.Printf("Config file: %s\n", cfg.ConfigFilePath())

	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.PermissionsFile != "" {
		if _, err := loadMatrix(cfg.PermissionsFile); err != nil {
			return err
		}
	}

	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	if err := env.RequireDatabase(); err != nil {
		return err
	}
	for name, value := range map[string]string{
		"YACHTEXCEL_DATA_KEY":   env.DataKey,
		"YACHTEXCEL_JWT_SECRET": env.JWTSecret,
	} {
		if value == "" {
			return fmt.Errorf("%s environment variable is required", name)
		}
	}
	return nil
}
