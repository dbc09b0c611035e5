package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jawabu/ussd"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of the engine",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ussd version %s\n", strings.TrimSpace(ussd.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
