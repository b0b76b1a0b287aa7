package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arnav/rapidreach/internal/server"
)

var (
	tokenClient string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an API bearer token",
	Long:  `Mints a signed bearer token for the run endpoints using the shared SDR_API_SECRET. Only useful when the server runs with auth enabled.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenClient, "client", "cli", "Client name recorded in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	secret := os.Getenv("SDR_API_SECRET")
	if secret == "" {
		return fmt.Errorf("SDR_API_SECRET environment variable is required")
	}

	token, err := server.NewJWTService(secret, tokenTTL).GenerateToken(tokenClient)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, token)
	return nil
}
