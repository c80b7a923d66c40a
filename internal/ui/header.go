package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is one labelled value shown in a header
type Param struct {
	Key   string
	Value string
}

// Header represents a command header with title, command, and parameters.
// Shown before a scan so the user can see what it is waiting for.
type Header struct {
	Title   string  // e.g., "LED CONTROLLER DISCOVERY"
	Command string  // e.g., "ledenet scan"
	Params  []Param // Rendered in order
	Width   int     // Terminal width for responsive rendering
}

// NewHeader creates a new header with the given values
func NewHeader(title, command string, params ...Param) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	titleLine := HeaderTitleStyle.Render(strings.ToUpper(h.Title))
	commandLine := HeaderCommandStyle.Render(h.Command)
	topSection := lipgloss.JoinVertical(lipgloss.Left, titleLine, commandLine)

	if len(h.Params) == 0 {
		return HeaderBorderStyle(width).Render(topSection)
	}

	dividerWidth := width - 6 // Account for border and padding
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := RenderHorizontalDivider(dividerWidth, "─")

	// Align values on the longest key
	keyWidth := 0
	for _, p := range h.Params {
		if len(p.Key) > keyWidth {
			keyWidth = len(p.Key)
		}
	}

	paramLines := make([]string, 0, len(h.Params))
	for _, p := range h.Params {
		key := p.Key + ":" + strings.Repeat(" ", keyWidth-len(p.Key))
		paramLines = append(paramLines, HeaderParamKeyStyle.Render(key)+" "+HeaderParamValueStyle.Render(p.Value))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, topSection, divider, strings.Join(paramLines, "\n"))
	return HeaderBorderStyle(width).Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
