package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/backissue/internal/importer"
)

var parsersCmd = &cobra.Command{
	Use:   "parsers",
	Short: "List the registered metadata parser variants",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range importer.Parsers() {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(parsersCmd)
}
