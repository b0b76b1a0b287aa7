// Package main provides the entry point for the RapidReach SDR agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sdr_agent",
	Short: "RapidReach SDR outreach agent",
	Long:  "RapidReach automates first-touch sales outreach for local businesses: research, proposal drafting, an AI phone call, a pitch deck, and a follow-up email, exposed as a CLI and a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
