// Ledenet-sim emulates LEDENET LED controllers for discovery testing.
//
// It listens on the HF-A11 discovery port and answers every discovery probe
// with one reply per emulated controller, so scans can be exercised without
// real hardware on the network.
//
// Usage:
//
//	ledenet-sim serve [flags]
//
// See 'ledenet-sim serve --help' for available options.
package main

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/ledenet/internal/discovery"
	"github.com/muurk/ledenet/internal/logging"
	"github.com/muurk/ledenet/internal/responder"
	"github.com/muurk/ledenet/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ledenet-sim",
	Short: "LEDENET controller emulator",
	Long: `Emulates one or more LEDENET / Magic Home LED controllers on the discovery port.

Each emulated controller answers the HF-A11 discovery probe with its
"ip,hwaddr,model" reply. Payloads other than the probe are logged and ignored.

Note: For discovering controllers, use the separate 'ledenet' utility.`,
	Version:      version.Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	listenAddr string
	devices    []string
	rawReplies []string
	delay      time.Duration
	logLevel   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer discovery probes",
	Long: `Listen for the HF-A11 discovery probe and answer it for every --device.

Without --device a single controller is emulated. Use --reply to send raw
payloads, for example malformed replies, after the device replies.`,
	Example: `  # Emulate one controller on the standard port
  ledenet-sim serve

  # Emulate two controllers, answering slowly
  ledenet-sim serve --device 192.168.1.42,ACCF23A1B2C3,HF-LPB100 \
                    --device 192.168.1.43,ACCF23A1B2C4,AK001-ZJ2101 --delay 500ms

  # Listen on loopback only, on another port, with datagram dumps
  ledenet-sim serve --listen 127.0.0.1:50000 --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":"+strconv.Itoa(discovery.DefaultUDPPort), "UDP address to listen on")
	serveCmd.Flags().StringArrayVar(&devices, "device", nil, "Emulated controller as ip,hwaddr,model (repeatable)")
	serveCmd.Flags().StringArrayVar(&rawReplies, "reply", nil, "Raw reply payload sent after the device replies (repeatable)")
	serveCmd.Flags().DurationVar(&delay, "delay", 0, "Pause before each reply (e.g. 250ms)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// defaultDevice is emulated when no --device is given
var defaultDevice = discovery.Device{IP: "192.168.1.100", HWAddr: "ACCF23000001", Model: "HF-LPB100-ZJ200"}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	config, err := buildConfig()
	if err != nil {
		return err
	}

	return responder.New(config).Start()
}

// buildConfig turns the serve flags into a responder configuration
func buildConfig() (*responder.Config, error) {
	host, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid listen address %q: %w", listenAddr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return nil, fmt.Errorf("invalid listen port %q", portStr)
	}

	config := &responder.Config{
		Host:  host,
		Port:  port,
		Delay: delay,
	}

	for _, value := range devices {
		device, err := responder.ParseDeviceFlag(value)
		if err != nil {
			return nil, err
		}
		config.Devices = append(config.Devices, device)
	}
	if len(config.Devices) == 0 && len(rawReplies) == 0 {
		config.Devices = []discovery.Device{defaultDevice}
	}

	for _, reply := range rawReplies {
		config.Replies = append(config.Replies, []byte(reply))
	}

	return config, nil
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String("ledenet-sim"))
	},
}
