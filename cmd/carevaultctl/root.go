package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "carevaultctl",
	Short: "CareVault patient record server",
	Long:  `carevaultctl manages the CareVault server, its database and its user accounts.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
