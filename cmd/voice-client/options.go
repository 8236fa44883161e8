package main

import (
	"github.com/spf13/cobra"

	"travai-server/internal/config"
)

// loadConfig reads the environment then applies any flags that were set.
func loadConfig(cmd *cobra.Command) (*config.ClientConfig, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"server":     &cfg.ServerURL,
		"room":       &cfg.Room,
		"name":       &cfg.Name,
		"auth-token": &cfg.AuthToken,
		"mic":        &cfg.MicFile,
		"record-dir": &cfg.RecordDir,
	}
	for flag, target := range overrides {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		*target = f.Value.String()
	}
	if f := cmd.Flags().Lookup("no-publish"); f != nil && f.Changed {
		noPublish, _ := cmd.Flags().GetBool("no-publish")
		cfg.PublishAudio = !noPublish
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
