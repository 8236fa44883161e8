package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "voice-client",
	Short: "Travai voice assistant client",
	Long: `voice-client joins a LiveKit room as the voice assistant's user side.

It fetches a token from the voice API, connects, publishes an Ogg/Opus file
as the microphone and records the agent's audio to disk.

Examples:
  voice-client token --room voice-assistant
  voice-client connect --mic prompt.ogg --record-dir recordings`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(tokenCmd)

	rootCmd.PersistentFlags().String("server", "", "Voice API base URL (overrides VOICE_SERVER_URL)")
	rootCmd.PersistentFlags().String("room", "", "Room name (overrides VOICE_ROOM)")
	rootCmd.PersistentFlags().String("name", "", "Participant name (overrides VOICE_NAME)")
	rootCmd.PersistentFlags().String("auth-token", "", "Bearer token for the voice API (overrides VOICE_AUTH_TOKEN)")
}
