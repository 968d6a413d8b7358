// Package configcmder provides the config command for managing persistent
// tokenbench configuration stored in the .tokenbench/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent tokenbench configuration.

Configuration is stored as config.toml in the .tokenbench/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  server.base_url, server.model, server.api_key,
  load.parallel, load.requests, load.timeout_seconds,
  generation.max_tokens, generation.temperature,
  generation.prompt_size, generation.stream

Use subcommands to get, set, or list configuration values:
  tokenbench config set <key> <value>    Set a configuration value
  tokenbench config get <key>            Get a configuration value
  tokenbench config list                 List all configuration values

Examples:
  tokenbench config set server.base_url http://gpu-box:8000
  tokenbench config set load.parallel 16
  tokenbench config get server.model
  tokenbench config list`

const configShortDesc string = "Manage persistent tokenbench configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
