package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CBIIT/ccdi-dcc-federation-service/bootstrap"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("federation %s\n", bootstrap.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
