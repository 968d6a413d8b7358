// Package tokenbenchcmder
package tokenbenchcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/tokenbench/tokenbench/cmd/tokenbench/config"
	runcmder "github.com/tokenbench/tokenbench/cmd/tokenbench/run"
	versioncmder "github.com/tokenbench/tokenbench/cmd/version"
)

const tokenbenchLongDesc string = `tokenbench stress-tests an OpenAI-compatible chat-completion server
with parallel requests and reports latency and throughput statistics.

Run a benchmark using:
  tokenbench run                          4 parallel, 8 requests, small prompts
  tokenbench run -p 16 -n 50              heavier load
  tokenbench run --prompt-size large      longer completions`

const tokenbenchShortDesc string = "tokenbench - LLM server load testing"

func NewTokenbenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenbench",
		Short: tokenbenchShortDesc,
		Long:  tokenbenchLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .tokenbench/ config directory")

	// Add subcommands
	cmd.AddCommand(runcmder.NewRunCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
