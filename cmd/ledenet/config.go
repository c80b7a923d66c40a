package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/ledenet/internal/config"
	"github.com/muurk/ledenet/internal/ui"
)

var forceInit bool

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file without asking")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the ledenet config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file holding the default discovery preferences.

If the file already exists you are asked to confirm before it is replaced,
which also forgets every recorded controller. Use --force to skip the prompt.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	overwrite := forceInit
	if _, err := os.Stat(path); err == nil && !overwrite {
		if !ui.IsTerminal() {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}
		overwrite = ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
			"CONFIG FILE EXISTS",
			[]string{
				"The file at " + path + " will be replaced",
				"Nicknames and recorded controllers will be lost",
			},
			"overwrite",
		)
		if !overwrite {
			return errors.New("config init cancelled")
		}
	}

	if err := config.CreateDefaultConfig(path, overwrite); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", path)
	return nil
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}
