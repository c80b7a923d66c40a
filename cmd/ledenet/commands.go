package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/ledenet/internal/config"
	"github.com/muurk/ledenet/internal/discovery"
	"github.com/muurk/ledenet/internal/ui"
)

// Scan command flags
var (
	scanCount     int
	scanTimeout   time.Duration
	scanModels    []string
	scanHWAddrs   []string
	scanPort      int
	scanBroadcast string
	outputFormat  string
	saveResults   bool
)

var scanTroubleshooting = []string{
	"Ensure the controllers are powered on and joined to this WiFi network",
	"Check that your firewall allows UDP port 48899 in and out",
	"Try a directed broadcast for your subnet, e.g. --broadcast 192.168.1.255",
	"Try increasing --timeout for slow or busy networks",
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(findCmd)
}

// scanCmd discovers controllers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for LED controllers on the network",
	Long: `Broadcast the HF-A11 discovery probe once and list the controllers that answer.

The scan stops as soon as at least --count controllers have answered and every
--model and --hw-addr given has been seen, or when --timeout passes. Reaching
the timeout is not an error: whatever answered is listed.

Flags override the preferences in the config file, which override the
built-in defaults.`,
	Example: `  # Stop at the first controller (default)
  ledenet scan

  # Wait for three controllers, up to 10 seconds
  ledenet scan --count 3 --timeout 10s

  # Wait for a specific controller
  ledenet scan --hw-addr ac:cf:23:a1:b2:c3

  # Collect everything that answers in 5 seconds, as JSON
  ledenet scan --count 1000 --format json

  # Remember what was found
  ledenet scan --save`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVarP(&scanCount, "count", "n", discovery.DefaultExpectedDevices, "Stop after this many replies")
	scanCmd.Flags().DurationVarP(&scanTimeout, "timeout", "t", discovery.DefaultTimeout, "Scan timeout")
	scanCmd.Flags().StringArrayVar(&scanModels, "model", nil, "Wait for a controller reporting this model (repeatable)")
	scanCmd.Flags().StringArrayVar(&scanHWAddrs, "hw-addr", nil, "Wait for the controller with this hardware address (repeatable)")
	scanCmd.Flags().IntVar(&scanPort, "port", discovery.DefaultUDPPort, "Discovery UDP port")
	scanCmd.Flags().StringVar(&scanBroadcast, "broadcast", discovery.DefaultBroadcastAddr, "Broadcast address to probe")
	scanCmd.Flags().StringVar(&outputFormat, "format", string(ui.FormatDetailed), "Output format (detailed, compact, json, csv)")
	scanCmd.Flags().BoolVar(&saveResults, "save", false, "Record discovered controllers in the config file")
}

// scanOptions merges the config file preferences with the flags the user set
func scanOptions(cmd *cobra.Command, prefs *config.Preferences) []discovery.Option {
	opts := prefs.DiscoveryOptions()

	flags := cmd.Flags()
	if flags.Changed("count") {
		opts = append(opts, discovery.WithExpectedDevices(scanCount))
	}
	if flags.Changed("timeout") {
		opts = append(opts, discovery.WithTimeout(scanTimeout))
	}
	if flags.Changed("model") {
		opts = append(opts, discovery.WithExpectedModels(scanModels...))
	}
	if flags.Changed("hw-addr") {
		opts = append(opts, discovery.WithExpectedHWAddrs(scanHWAddrs...))
	}
	if flags.Changed("port") {
		opts = append(opts, discovery.WithUDPPort(scanPort))
	}
	if flags.Changed("broadcast") {
		opts = append(opts, discovery.WithBroadcastAddr(scanBroadcast))
	}
	return opts
}

// scanParams describes a scan for the command header
func scanParams(opts discovery.Options) []ui.Param {
	params := []ui.Param{
		{Key: "Broadcast", Value: fmt.Sprintf("%s:%d", opts.BroadcastAddr, opts.UDPPort)},
		{Key: "Timeout", Value: opts.Timeout.String()},
		{Key: "Expected devices", Value: strconv.Itoa(opts.ExpectedDevices)},
	}
	if len(opts.ExpectedModels) > 0 {
		params = append(params, ui.Param{Key: "Models", Value: strings.Join(opts.ExpectedModels, ", ")})
	}
	if len(opts.ExpectedHWAddrs) > 0 {
		params = append(params, ui.Param{Key: "HW addresses", Value: strings.Join(opts.ExpectedHWAddrs, ", ")})
	}
	return params
}

func runScan(cmd *cobra.Command, args []string) error {
	format, err := ui.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	registry, path, err := loadRegistry()
	if err != nil {
		return err
	}

	scanner := discovery.NewScanner(scanOptions(cmd, registry.Preferences)...)
	if err := scanner.Options.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	interactive := format == ui.FormatDetailed && ui.IsTerminal()
	printer := ui.NewPrinter(cmd.OutOrStdout())

	var devices []discovery.Device
	if interactive {
		printer.PrintHeader("LED Controller Discovery", "ledenet scan", scanParams(scanner.Options)...)
		devices, err = ui.RunScan(ctx, scanner.Options.Timeout, scanner.DiscoverWithContext)
	} else {
		devices, err = scanner.DiscoverWithContext(ctx)
	}

	stopped := errors.Is(err, context.Canceled)
	if err != nil && !stopped {
		if interactive {
			printer.PrintError("Scan failed", err, scanTroubleshooting)
		}
		return fmt.Errorf("scan failed: %w", err)
	}

	if interactive {
		printScanResult(printer, registry, devices, stopped)
	} else {
		out, err := ui.FormatDevices(devices, format)
		if err != nil {
			return err
		}
		printer.Print(out)
	}

	if saveResults && len(devices) > 0 {
		added := registry.RecordDiscovered(devices, time.Now())
		if err := registry.SaveFile(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		if interactive {
			printer.Println(fmt.Sprintf("Saved %d controller(s) to %s (%d new)", len(devices), path, added))
		}
	}

	if stopped {
		return errors.New("scan stopped before completion")
	}
	return nil
}

// printScanResult prints the interactive summary of a scan
func printScanResult(printer *ui.Printer, registry *config.Registry, devices []discovery.Device, stopped bool) {
	if len(devices) == 0 {
		title := "No LED controllers found"
		if stopped {
			title = "Scan stopped before any controller answered"
		}
		printer.PrintWarning(title, scanTroubleshooting)
		return
	}

	title := fmt.Sprintf("Found %d controller(s)", len(devices))
	if stopped {
		title += " before the scan was stopped"
	}
	printer.PrintSuccess(title)
	printer.Newline()
	printer.Println(ui.RenderDeviceTable(devices, registry.Nickname))
	printer.Newline()
	printer.Println("Use 'ledenet scan --save' to remember these controllers")
}

// findCmd waits for one specific controller
var findCmd = &cobra.Command{
	Use:   "find <hw-addr>",
	Short: "Find the controller with a given hardware address",
	Long: `Scan until the controller with the given hardware address answers and print
its current IP address. The address may be written with or without ':' or '-'
separators, in either case.

Exits with an error if the controller does not answer within the timeout.`,
	Example: `  # Print the current IP of a controller
  ledenet find ACCF23A1B2C3

  # Use a nickname from the config file
  ledenet find Kitchen`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().DurationVarP(&scanTimeout, "timeout", "t", discovery.DefaultTimeout, "Scan timeout")
}

func runFind(cmd *cobra.Command, args []string) error {
	registry, _, err := loadRegistry()
	if err != nil {
		return err
	}

	hwAddr := args[0]
	if known := registry.FindByNickname(hwAddr); known != nil {
		hwAddr = known.HWAddr
	}

	opts := registry.Preferences.DiscoveryOptions()
	if cmd.Flags().Changed("timeout") {
		opts = append(opts, discovery.WithTimeout(scanTimeout))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	device, err := discovery.FindDevice(ctx, hwAddr, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), device.IP)
	return nil
}
