package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"travai-server/internal/domain/voice"
	"travai-server/internal/infrastructure/livekit"
	"travai-server/internal/infrastructure/logger"
	"travai-server/internal/infrastructure/media"
	"travai-server/internal/infrastructure/metrics"
	"travai-server/internal/infrastructure/tokenclient"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Join the voice assistant room until interrupted",
	Long: `Fetch a token, join the room and stay connected until Ctrl+C or the
remote side closes the session.`,
	RunE: runConnect,
}

func init() {
	connectCmd.Flags().String("mic", "", "Ogg/Opus file published as the microphone (overrides VOICE_MIC_FILE)")
	connectCmd.Flags().String("record-dir", "", "Directory for recorded agent audio (overrides VOICE_RECORD_DIR)")
	connectCmd.Flags().Bool("no-publish", false, "Join without publishing local audio")
}

func runConnect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New("voice-client", cfg.LogLevel, cfg.LogFormat)
	out := cmd.OutOrStdout()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ended := make(chan struct{}, 1)
	opts := voice.Options{
		PublishAudio: cfg.PublishAudio,
		Microphone:   media.NewFileMicrophone(cfg.MicFile, log),
		NewSink:      media.Factory(cfg.RecordDir, log),
		OnStateChange: func(from, to voice.State) {
			metrics.RecordStateTransition(from.String(), to.String())
			log.Debug().Str("from", from.String()).Str("to", to.String()).Msg("state change")
		},
		OnConnected: func(sess voice.Session) {
			log.Info().Str("room", sess.Room()).Str("identity", sess.LocalIdentity()).Msg("connected")
		},
		OnDisconnected: func() {
			select {
			case ended <- struct{}{}:
			default:
			}
		},
		OnError: func(err error) {
			log.Error().Err(err).Msg("voice session error")
		},
	}

	tokens := tokenclient.New(cfg.ServerURL, cfg.AuthToken, cfg.TokenTimeout)
	assistant := voice.NewAssistant(tokens, livekit.NewSessionBackend(log), cfg.Room, cfg.Name, opts, log)

	fmt.Fprintln(out, voice.StatusConnecting)
	result, err := assistant.Toggle(ctx)
	if err != nil {
		return err
	}
	if result.Err != nil {
		return result.Err
	}
	if result.Degraded {
		fmt.Fprintf(out, "microphone unavailable: %v\n", result.MediaErr)
	}
	fmt.Fprintln(out, assistant.StatusText())

	select {
	case <-ctx.Done():
	case <-ended:
		fmt.Fprintln(out, "session ended by remote")
	}

	assistant.Stop()
	fmt.Fprintln(out, assistant.StatusText())
	return nil
}
