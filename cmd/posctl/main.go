// Command posctl is the operator CLI: seed demo data, mint dev tokens and
// inspect dashboard metrics and job queues without going through HTTP.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "posctl",
		Short:         "Operator tooling for the POS backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			*cfg = *loaded
			return nil
		},
	}
	cfg = &config.Config{}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newSeedCmd(cfg),
		newTokenCmd(cfg),
		newMetricsCmd(cfg),
		newQueuesCmd(cfg),
	)
	return root
}
