package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// fieldsCmd represents the fields command
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Work with document field extraction",
	Long:  `Map Document AI entities to yacht profile fields without calling the API.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'fields' requires a subcommand (parse)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}
