package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"travai-server/internal/infrastructure/tokenclient"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Fetch a LiveKit token from the voice API",
	Long:  `Request a room token and print the server URL and token without joining.`,
	RunE:  runToken,
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client := tokenclient.New(cfg.ServerURL, cfg.AuthToken, cfg.TokenTimeout)
	url, token, err := client.Fetch(cmd.Context(), cfg.Room, cfg.Name)
	if err != nil {
		return fmt.Errorf("fetch token: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "url:   %s\n", url)
	fmt.Fprintf(out, "token: %s\n", token)
	return nil
}
