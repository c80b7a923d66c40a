package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muurk/ledenet/internal/ui"
)

var devicesFormat string

func init() {
	devicesCmd.Flags().StringVar(&devicesFormat, "format", string(ui.FormatDetailed), "Output format (detailed, json)")

	devicesCmd.AddCommand(devicesRenameCmd)
	devicesCmd.AddCommand(devicesForgetCmd)
	rootCmd.AddCommand(devicesCmd)
}

// devicesCmd lists the controllers remembered in the config file
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List controllers remembered in the config file",
	Long: `List the controllers recorded by 'ledenet scan --save', with their nicknames,
last reported IP address and when they were last seen.`,
	Example: `  # List remembered controllers
  ledenet devices

  # Give a controller a nickname
  ledenet devices rename ACCF23A1B2C3 Kitchen

  # Forget a controller
  ledenet devices forget ACCF23A1B2C3`,
	Args: cobra.NoArgs,
	RunE: runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	registry, path, err := loadRegistry()
	if err != nil {
		return err
	}

	known := registry.SortedDevices()
	out := cmd.OutOrStdout()

	switch devicesFormat {
	case string(ui.FormatJSON):
		data, err := json.MarshalIndent(registry.Devices, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case string(ui.FormatDetailed):
		if len(known) == 0 {
			fmt.Fprintf(out, "No controllers recorded in %s\n", path)
			fmt.Fprintln(out, "Use 'ledenet scan --save' to record the controllers on your network")
			return nil
		}
		fmt.Fprintln(out, ui.RenderRegistryTable(known))
	default:
		return fmt.Errorf("unknown output format %q (expected detailed or json)", devicesFormat)
	}
	return nil
}

var devicesRenameCmd = &cobra.Command{
	Use:   "rename <hw-addr> <nickname>",
	Short: "Set the nickname of a controller",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, path, err := loadRegistry()
		if err != nil {
			return err
		}

		registry.SetDeviceNickname(args[0], args[1])
		if err := registry.SaveFile(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Controller %s is now %q\n", args[0], args[1])
		return nil
	},
}

var devicesForgetCmd = &cobra.Command{
	Use:   "forget <hw-addr>",
	Short: "Remove a controller from the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, path, err := loadRegistry()
		if err != nil {
			return err
		}

		if !registry.RemoveDevice(args[0]) {
			return fmt.Errorf("controller %s is not recorded in %s", args[0], path)
		}
		if err := registry.SaveFile(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Forgot controller %s\n", args[0])
		return nil
	},
}
