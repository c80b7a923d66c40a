// Package ui provides terminal UI components for the ledenet CLI.
//
// This package uses Bubble Tea and Lipgloss to render polished terminal output.
// Apart from the scan display, components follow a "render once" pattern:
// they are printed and never redrawn.
//
// # Components
//
//   - Header: command banner showing the scan parameters
//   - ScanModel: spinner and progress bar shown while a scan is in flight
//   - Result: success, warning and failure boxes with troubleshooting tips
//   - Device tables and FormatDevices for detailed, compact, JSON and CSV output
//   - Confirm: typed confirmation before overwriting user data
//
// # Usage Pattern
//
//	printer := ui.NewPrinter(os.Stdout)
//	printer.PrintHeader("LED Controller Discovery", "ledenet scan",
//	    ui.Param{Key: "Timeout", Value: "5s"})
//
//	devices, err := ui.RunScan(ctx, 5*time.Second, scanner.DiscoverWithContext)
//	if err != nil {
//	    printer.PrintError("Scan failed", err, tips)
//	    return err
//	}
//	printer.Println(ui.RenderDeviceTable(devices, nil))
//
// RunScan needs an interactive terminal; check IsTerminal first and run the
// scan directly otherwise.
//
// # Logging Integration
//
// This package expects logging to be controlled via the LEDENET_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly.
package ui
