package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/perch-dev/perch/internal/config"
	clierrors "github.com/perch-dev/perch/internal/errors"
	"github.com/perch-dev/perch/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage perch configuration",
		Long: `View and modify perch configuration values.

Settings live in ~/.config/perch/config.yaml and can be overridden with
PERCH_* environment variables.`,
		Example: `  perch config list
  perch config get widget.theme
  perch config set widget.stale_after 45`,
	}

	cmd.AddCommand(newConfigListCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all configuration values",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			cfg := config.Load()

			settings := cfg.All()

			if out.JSON {
				return out.PrintJSON(settings)
			}

			keys := flattenKeys("", settings)
			sort.Strings(keys)

			for _, k := range keys {
				out.Print("%s = %v\n", k, cfg.Get(k))
			}

			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			cfg := config.Load()

			value := cfg.Get(args[0])
			if value == nil {
				return clierrors.New(clierrors.ExitConfig, fmt.Sprintf("Unknown configuration key: %s", args[0])).
					WithHint("Run 'perch config list' to see available keys")
			}

			if out.JSON {
				return out.PrintJSON(map[string]interface{}{args[0]: value})
			}

			out.Print("%v\n", value)

			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set and persist a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			cfg := config.Load()

			key, raw := args[0], args[1]

			if err := cfg.Set(key, coerceValue(raw)); err != nil {
				return clierrors.ConfigWriteFailed(err)
			}

			out.Success("%s = %s", key, raw)

			return nil
		},
	}
}

// coerceValue keeps bools and ints typed in the YAML file instead of
// writing everything as strings.
func coerceValue(raw string) interface{} {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}

	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}

	return raw
}

func flattenKeys(prefix string, m map[string]interface{}) []string {
	var keys []string

	for k, v := range m {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}

		if nested, ok := v.(map[string]interface{}); ok {
			keys = append(keys, flattenKeys(full, nested)...)
			continue
		}

		keys = append(keys, full)
	}

	return keys
}
