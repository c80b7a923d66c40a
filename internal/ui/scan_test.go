package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/ledenet/internal/discovery"
)

func TestScanModel_Fraction(t *testing.T) {
	m := NewScanModel(context.Background(), 4*time.Second, nil)

	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 0},
		{time.Second, 0.25},
		{2 * time.Second, 0.5},
		{10 * time.Second, 1},
		{-time.Second, 0},
	}

	for _, tt := range tests {
		m.now = m.started.Add(tt.elapsed)
		if got := m.Fraction(); got != tt.want {
			t.Errorf("Fraction() after %v = %v, want %v", tt.elapsed, got, tt.want)
		}
	}
}

func TestScanModel_RunScanDeliversResult(t *testing.T) {
	devices := []discovery.Device{{IP: "192.168.1.42", HWAddr: "ACCF23A1B2C3", Model: "HF-LPB100"}}
	m := NewScanModel(context.Background(), time.Second, func(ctx context.Context) ([]discovery.Device, error) {
		return devices, nil
	})

	msg := m.runScan()
	updated, cmd := m.Update(msg)
	final := updated.(ScanModel)

	if !final.Done {
		t.Error("Done = false after scan completed")
	}
	if len(final.Devices) != 1 || final.Devices[0] != devices[0] {
		t.Errorf("Devices = %v, want %v", final.Devices, devices)
	}
	if cmd == nil {
		t.Fatal("Update() should return tea.Quit after the scan completes")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Update() command is not tea.Quit")
	}
	if final.View() != "" {
		t.Error("View() should be empty once done")
	}
}

func TestScanModel_QuitCancelsScan(t *testing.T) {
	var scanCtx context.Context
	m := NewScanModel(context.Background(), time.Minute, func(ctx context.Context) ([]discovery.Device, error) {
		scanCtx = ctx
		<-ctx.Done()
		return []discovery.Device{}, ctx.Err()
	})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = updated.(ScanModel)
	if !m.Cancelled {
		t.Error("Cancelled = false after q")
	}
	if !strings.Contains(m.View(), "Stopping") {
		t.Error("View() should show the stopping state")
	}

	updated, _ = m.Update(m.runScan())
	final := updated.(ScanModel)
	if !errors.Is(final.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", final.Err)
	}
	if scanCtx == nil || scanCtx.Err() == nil {
		t.Error("scan context should be cancelled")
	}
}

func TestScanModel_View(t *testing.T) {
	m := NewScanModel(context.Background(), 5*time.Second, nil)
	m.now = m.started.Add(time.Second)

	view := m.View()
	expectedParts := []string{"SEARCHING FOR LED CONTROLLERS", "Elapsed: 1s of 5s"}
	for _, part := range expectedParts {
		if !strings.Contains(view, part) {
			t.Errorf("View() missing expected part: %s", part)
		}
	}
}

func TestScanModel_ProgressTickStopsWhenDone(t *testing.T) {
	m := NewScanModel(context.Background(), time.Second, nil)

	_, cmd := m.Update(progressTickMsg(time.Now()))
	if cmd == nil {
		t.Error("progress tick should schedule another tick while scanning")
	}

	m.Done = true
	_, cmd = m.Update(progressTickMsg(time.Now()))
	if cmd != nil {
		t.Error("progress tick should stop once done")
	}
}
