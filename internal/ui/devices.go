package ui

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/ledenet/internal/config"
	"github.com/muurk/ledenet/internal/discovery"
)

// Format selects how discovered devices are written
type Format string

// Output formats accepted by --format
const (
	FormatDetailed Format = "detailed"
	FormatCompact  Format = "compact"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
)

// ParseFormat validates an output format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatDetailed, FormatCompact, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected detailed, compact, json or csv)", name)
	}
}

// jsonDevice is the JSON shape of a discovered device
type jsonDevice struct {
	IP     string `json:"ip"`
	HWAddr string `json:"hw_addr"`
	Model  string `json:"model"`
}

// FormatDevices renders devices in the given format.
// Detailed and compact output end with a newline; an empty list yields
// "[]" for JSON and just the header row for CSV.
func FormatDevices(devices []discovery.Device, format Format) (string, error) {
	switch format {
	case FormatCompact:
		var b strings.Builder
		for _, d := range devices {
			b.WriteString(d.Line())
			b.WriteString("\n")
		}
		return b.String(), nil

	case FormatJSON:
		out := make([]jsonDevice, 0, len(devices))
		for _, d := range devices {
			out = append(out, jsonDevice{IP: d.IP, HWAddr: d.HWAddr, Model: d.Model})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data) + "\n", nil

	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write([]string{"ip", "hw_addr", "model"})
		for _, d := range devices {
			_ = w.Write([]string{d.IP, d.HWAddr, d.Model})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", fmt.Errorf("failed to write CSV: %w", err)
		}
		return buf.String(), nil

	case FormatDetailed:
		var b strings.Builder
		for i, d := range devices {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, d.HWAddr))
			b.WriteString(fmt.Sprintf("   IP:               %s\n", d.IP))
			b.WriteString(fmt.Sprintf("   Hardware address: %s\n", d.HWAddr))
			b.WriteString(fmt.Sprintf("   Model:            %s\n", d.Model))
			b.WriteString("\n")
		}
		return b.String(), nil

	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

// RenderDeviceTable renders discovered devices as a bordered table.
// nickname may be nil; when set, a Nickname column is added.
func RenderDeviceTable(devices []discovery.Device, nickname func(hwAddr string) string) string {
	headers := []string{"#", "IP", "HW ADDRESS", "MODEL"}
	if nickname != nil {
		headers = append(headers, "NICKNAME")
	}

	rows := make([][]string, 0, len(devices))
	for i, d := range devices {
		row := []string{fmt.Sprintf("%d", i+1), d.IP, d.HWAddr, d.Model}
		if nickname != nil {
			row = append(row, nickname(d.HWAddr))
		}
		rows = append(rows, row)
	}

	return newTable(headers, rows, len(headers)-1, nickname != nil).Render()
}

// RenderRegistryTable renders the devices remembered in the config file
func RenderRegistryTable(known []config.KnownDevice) string {
	headers := []string{"HW ADDRESS", "NICKNAME", "MODEL", "LAST IP", "LAST SEEN"}

	rows := make([][]string, 0, len(known))
	for _, k := range known {
		lastSeen := "never"
		if !k.LastSeen.IsZero() {
			lastSeen = k.LastSeen.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{k.HWAddr, k.Nickname, k.Model, k.LastIP, lastSeen})
	}

	return newTable(headers, rows, 1, true).Render()
}

// newTable builds a table in the shared style; mutedCol is dimmed when muted is set
func newTable(headers []string, rows [][]string, mutedCol int, muted bool) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle.Padding(0, 1)
			case muted && col == mutedCol:
				return TableMutedCellStyle.Padding(0, 1)
			default:
				return TableCellStyle.Padding(0, 1)
			}
		})
}
