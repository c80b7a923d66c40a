// Ledenet finds LEDENET / Magic Home LED controllers on the local network.
//
// Controllers built around the HF-A11 WiFi module answer a UDP broadcast on
// port 48899 with their IP address, hardware address and module model.
// Ledenet sends that broadcast, collects the replies and can remember the
// controllers it has seen in a small YAML file.
//
// Usage:
//
//	ledenet [command] [flags]
//
// See 'ledenet --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/ledenet/internal/config"
	"github.com/muurk/ledenet/internal/logging"
	"github.com/muurk/ledenet/internal/version"
)

// Global flags
var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ledenet",
	Short: "LEDENET LED controller discovery utility",
	Long: `A utility for finding LEDENET / Magic Home LED controllers on the local network.

Controllers are discovered with a single UDP broadcast. Preferences such as the
scan timeout and the controllers you expect to answer can be kept in a config
file (see 'ledenet config init').

Set LEDENET_LOG_LEVEL=debug to see every datagram sent and received.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is the OS config directory)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String("ledenet"))
	},
}

// resolveConfigPath returns --config or the default config path
func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	return path, nil
}

// loadRegistry loads the config file named by --config or the default one
func loadRegistry() (*config.Registry, string, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	registry, err := config.LoadRegistryFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	return registry, path, nil
}
