// Package main is the entry point for the GM API server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gm-api",
	Short: "Game Master API Server",
	Long:  `gm-api serves an HTTP API for AI-driven tabletop sessions: characters, dice, combat, and a chat loop whose replies are applied to game state through audited actions.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
