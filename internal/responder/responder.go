package responder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ledenet/internal/discovery"
	"github.com/muurk/ledenet/internal/logging"
)

// Config holds the responder configuration
type Config struct {
	Host    string             // Listen address (empty = all interfaces)
	Port    int                // Listen port (0 = ephemeral)
	Devices []discovery.Device // Devices announced, one reply datagram each
	Replies [][]byte           // Raw reply payloads sent after Devices
	Delay   time.Duration      // Pause before each reply datagram
}

// Responder emulates one or more HF-A11 WiFi modules answering the
// discovery probe
type Responder struct {
	config *Config
	conn   net.PacketConn
	wg     sync.WaitGroup
	mu     sync.Mutex
	probes int
	closed bool
}

// New creates a new Responder. Call Listen before Serve.
func New(config *Config) *Responder {
	return &Responder{config: config}
}

// Listen binds the UDP socket
func (r *Responder) Listen() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn != nil {
		return errors.New("responder already listening")
	}

	addr := net.JoinHostPort(r.config.Host, strconv.Itoa(r.config.Port))
	conn, err := net.ListenPacket("udp4", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	r.conn = conn

	logging.Info("Responder listening",
		zap.String("addr", conn.LocalAddr().String()),
		zap.Int("devices", len(r.config.Devices)),
		zap.Int("raw_replies", len(r.config.Replies)),
		zap.Duration("delay", r.config.Delay),
	)
	return nil
}

// Addr returns the bound address, nil before Listen
func (r *Responder) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	return r.conn.LocalAddr()
}

// Port returns the bound UDP port, 0 before Listen
func (r *Responder) Port() int {
	if addr, ok := r.Addr().(*net.UDPAddr); ok {
		return addr.Port
	}
	return 0
}

// Serve answers probes until ctx is done or Close is called
func (r *Responder) Serve(ctx context.Context) error {
	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()
	if conn == nil {
		return errors.New("responder is not listening")
	}

	stop := context.AfterFunc(ctx, func() {
		_ = r.Close()
	})
	defer stop()

	buf := make([]byte, discovery.MaxReplySize)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				r.wg.Wait()
				return nil
			}
			return fmt.Errorf("failed to read datagram: %w", err)
		}

		logging.LogDatagram("received", addr.String(), buf[:n])

		if !bytes.Equal(buf[:n], []byte(discovery.Probe)) {
			logging.Warn("Ignoring unexpected datagram",
				zap.String("remote_addr", addr.String()),
				zap.Int("length", n),
			)
			continue
		}

		r.mu.Lock()
		r.probes++
		r.mu.Unlock()

		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.reply(conn, addr)
		}()
	}
}

// reply sends the configured replies to a prober
func (r *Responder) reply(conn net.PacketConn, to net.Addr) {
	payloads := make([][]byte, 0, len(r.config.Devices)+len(r.config.Replies))
	for _, device := range r.config.Devices {
		payloads = append(payloads, []byte(device.Line()))
	}
	payloads = append(payloads, r.config.Replies...)

	for _, payload := range payloads {
		if r.config.Delay > 0 {
			time.Sleep(r.config.Delay)
		}
		if _, err := conn.WriteTo(payload, to); err != nil {
			if !errors.Is(err, net.ErrClosed) {
				logging.Error("Failed to send reply",
					zap.String("remote_addr", to.String()),
					zap.Error(err),
				)
			}
			return
		}
		logging.LogDatagram("sent", to.String(), payload)
	}
}

// Start listens and serves until SIGINT or SIGTERM
func (r *Responder) Start() error {
	if err := r.Listen(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := r.Serve(ctx)
	logging.Info("Responder stopped", zap.Int("probes_answered", r.ProbeCount()))
	logging.Sync()
	return err
}

// ProbeCount returns how many probes were answered
func (r *Responder) ProbeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.probes
}

// Close stops the responder. Safe to call more than once.
func (r *Responder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.conn == nil {
		return nil
	}
	r.closed = true
	return r.conn.Close()
}

// ParseDeviceFlag parses an "ip,hwaddr,model" flag value into a complete device
func ParseDeviceFlag(value string) (discovery.Device, error) {
	device := discovery.ParseDevice([]byte(value))
	if !device.Complete() {
		return discovery.Device{}, fmt.Errorf("invalid device %q: expected ip,hwaddr,model", value)
	}
	return device, nil
}
