package responder

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/muurk/ledenet/internal/discovery"
)

func startResponder(t *testing.T, config *Config) *Responder {
	t.Helper()

	if config.Host == "" {
		config.Host = "127.0.0.1"
	}
	r := New(config)
	if err := r.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Serve(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve() error = %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("Serve() did not return after cancel")
		}
	})
	return r
}

func dialResponder(t *testing.T, r *Responder) *net.UDPConn {
	t.Helper()

	conn, err := net.DialUDP("udp4", nil, r.Addr().(*net.UDPAddr))
	if err != nil {
		t.Fatalf("DialUDP() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readAll(t *testing.T, conn *net.UDPConn, wait time.Duration) []string {
	t.Helper()

	var replies []string
	buf := make([]byte, discovery.MaxReplySize)
	_ = conn.SetReadDeadline(time.Now().Add(wait))
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return replies
		}
		replies = append(replies, string(buf[:n]))
	}
}

func TestResponder_AnswersProbe(t *testing.T) {
	r := startResponder(t, &Config{
		Devices: []discovery.Device{
			{IP: "192.168.1.42", HWAddr: "ACCF23A1B2C3", Model: "HF-LPB100"},
			{IP: "192.168.1.43", HWAddr: "ACCF23A1B2C4", Model: "HF-LPB100"},
		},
		Replies: [][]byte{[]byte("malformed")},
	})
	conn := dialResponder(t, r)

	if _, err := conn.Write([]byte(discovery.Probe)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	replies := readAll(t, conn, 500*time.Millisecond)
	want := []string{
		"192.168.1.42,ACCF23A1B2C3,HF-LPB100",
		"192.168.1.43,ACCF23A1B2C4,HF-LPB100",
		"malformed",
	}
	if len(replies) != len(want) {
		t.Fatalf("got %d replies %v, want %d", len(replies), replies, len(want))
	}
	for i := range want {
		if replies[i] != want[i] {
			t.Errorf("reply[%d] = %q, want %q", i, replies[i], want[i])
		}
	}

	if r.ProbeCount() != 1 {
		t.Errorf("ProbeCount() = %d, want 1", r.ProbeCount())
	}
}

func TestResponder_IgnoresOtherPayloads(t *testing.T) {
	r := startResponder(t, &Config{
		Devices: []discovery.Device{{IP: "192.168.1.42", HWAddr: "ACCF23A1B2C3", Model: "HF-LPB100"}},
	})
	conn := dialResponder(t, r)

	for _, payload := range []string{"hello", "HF-A11ASSISTHREAD\n", "AT+VER\r"} {
		if _, err := conn.Write([]byte(payload)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	if replies := readAll(t, conn, 200*time.Millisecond); len(replies) != 0 {
		t.Errorf("got replies %v, want none", replies)
	}
	if r.ProbeCount() != 0 {
		t.Errorf("ProbeCount() = %d, want 0", r.ProbeCount())
	}
}

func TestResponder_Delay(t *testing.T) {
	delay := 50 * time.Millisecond
	r := startResponder(t, &Config{
		Devices: []discovery.Device{
			{IP: "192.168.1.42", HWAddr: "ACCF23A1B2C3", Model: "HF-LPB100"},
			{IP: "192.168.1.43", HWAddr: "ACCF23A1B2C4", Model: "HF-LPB100"},
		},
		Delay: delay,
	})
	conn := dialResponder(t, r)

	start := time.Now()
	if _, err := conn.Write([]byte(discovery.Probe)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	buf := make([]byte, discovery.MaxReplySize)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < 2; i++ {
		if _, err := conn.Read(buf); err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 2*delay {
		t.Errorf("two replies arrived after %v, want at least %v", elapsed, 2*delay)
	}
}

func TestResponder_ServeBeforeListen(t *testing.T) {
	r := New(&Config{})
	if err := r.Serve(context.Background()); err == nil {
		t.Error("Serve() before Listen() should fail")
	}
	if r.Addr() != nil {
		t.Errorf("Addr() = %v before Listen(), want nil", r.Addr())
	}
	if r.Port() != 0 {
		t.Errorf("Port() = %d before Listen(), want 0", r.Port())
	}
}

func TestResponder_ListenTwice(t *testing.T) {
	r := New(&Config{Host: "127.0.0.1"})
	if err := r.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer r.Close()

	if err := r.Listen(); err == nil {
		t.Error("second Listen() should fail")
	}
}

func TestResponder_CloseIsIdempotent(t *testing.T) {
	r := New(&Config{Host: "127.0.0.1"})
	if err := r.Close(); err != nil {
		t.Errorf("Close() before Listen() error = %v", err)
	}
	if err := r.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestParseDeviceFlag(t *testing.T) {
	tests := []struct {
		value   string
		want    discovery.Device
		wantErr bool
	}{
		{
			value: "192.168.1.42,ACCF23A1B2C3,HF-LPB100",
			want:  discovery.Device{IP: "192.168.1.42", HWAddr: "ACCF23A1B2C3", Model: "HF-LPB100"},
		},
		{value: "192.168.1.42,ACCF23A1B2C3", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseDeviceFlag(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDeviceFlag(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDeviceFlag(%q) = %+v, want %+v", tt.value, got, tt.want)
			}
		})
	}
}
