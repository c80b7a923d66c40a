package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/ledenet/internal/logging"
)

const (
	// Probe is the "password" HF-A11 WiFi modules answer on the discovery port
	Probe = "HF-A11ASSISTHREAD"

	// MaxReplySize is the largest reply payload read per datagram
	MaxReplySize = 1024

	// QuickScanTimeout is the timeout used by QuickScan
	QuickScanTimeout = 2 * time.Second
)

// aLongTimeAgo is a read deadline that makes a blocked read return at once
var aLongTimeAgo = time.Unix(1, 0)

// Scanner broadcasts the discovery probe and collects controller replies
type Scanner struct {
	// Options controls the stopping predicate, timeout and destination
	Options Options

	listen listenFunc
}

// NewScanner creates a new scanner with the default options and opts applied
func NewScanner(opts ...Option) *Scanner {
	return &Scanner{
		Options: NewOptions(opts...),
		listen:  listenBroadcast,
	}
}

// Discover runs one scan. See DiscoverWithContext.
func (s *Scanner) Discover() ([]Device, error) {
	return s.DiscoverWithContext(context.Background())
}

// DiscoverWithContext broadcasts the probe once and collects complete replies
// in arrival order until the stopping predicate holds or the timeout passes.
//
// Reaching the timeout is not an error: the devices seen so far are returned,
// possibly none. Duplicate replies are kept. Socket failures are returned as
// *TransportError without partial results.
//
// A ctx deadline earlier than the timeout behaves like the timeout. Cancelling
// ctx stops the scan and returns the devices seen so far with ctx.Err().
func (s *Scanner) DiscoverWithContext(ctx context.Context) ([]Device, error) {
	opts := s.Options
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	expect := newExpectation(opts)

	dest, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(opts.BroadcastAddr, strconv.Itoa(opts.UDPPort)))
	if err != nil {
		return nil, &TransportError{
			Op:      "resolve broadcast address",
			Details: opts.BroadcastAddr,
			Err:     err,
		}
	}

	listen := s.listen
	if listen == nil {
		listen = listenBroadcast
	}
	conn, err := listen(ctx)
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) {
			return nil, te
		}
		return nil, &TransportError{Op: "open socket", Err: err}
	}
	defer conn.Close()

	if err := sendProbe(conn, dest); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, &TransportError{Op: "set read deadline", Err: err}
	}

	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(aLongTimeAgo)
	})
	defer stop()

	logging.Info("Scanning for LED controllers",
		zap.String("destination", dest.String()),
		zap.Duration("timeout", opts.Timeout),
		zap.Int("expected_devices", opts.ExpectedDevices),
		zap.Strings("expected_models", opts.ExpectedModels),
		zap.Strings("expected_hw_addrs", opts.ExpectedHWAddrs),
	)

	seen := newObserved()
	buf := make([]byte, MaxReplySize)
	for !expect.satisfiedBy(seen) {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if !errors.Is(err, os.ErrDeadlineExceeded) {
				return nil, &TransportError{Op: "receive reply", Err: err}
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return seen.devices, ctx.Err()
			}
			logging.Info("Scan timed out",
				zap.Int("devices", len(seen.devices)),
				zap.Bool("expectations_met", false),
			)
			return seen.devices, nil
		}

		logging.LogDatagram("received", addrString(addr), buf[:n])

		device := ParseDevice(buf[:n])
		if !device.Complete() {
			logging.Debug("Discarding incomplete reply",
				zap.String("remote_addr", addrString(addr)),
				zap.Int("length", n),
			)
			continue
		}
		seen.add(device)
	}

	logging.Info("Scan complete",
		zap.Int("devices", len(seen.devices)),
		zap.Bool("expectations_met", true),
	)
	return seen.devices, nil
}

// sendProbe writes the probe as a single datagram
func sendProbe(conn net.PacketConn, dest net.Addr) error {
	payload := []byte(Probe)

	n, err := conn.WriteTo(payload, dest)
	if err != nil {
		return &TransportError{
			Op:      "send probe",
			Details: dest.String(),
			Err:     err,
		}
	}
	if n != len(payload) {
		return &TransportError{
			Op:      "send probe",
			Details: dest.String(),
			Err:     fmt.Errorf("partial write: %d/%d bytes", n, len(payload)),
		}
	}

	logging.LogDatagram("sent", dest.String(), payload)
	return nil
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}

// Discover is a convenience function that runs one scan with opts merged
// over the defaults
func Discover(opts ...Option) ([]Device, error) {
	return NewScanner(opts...).Discover()
}

// QuickScan returns the first controller that answers within QuickScanTimeout
func QuickScan() ([]Device, error) {
	return Discover(WithTimeout(QuickScanTimeout))
}

// FindDevice scans until the controller with hardware address hwAddr answers.
// hwAddr is normalized before comparison. Returns an error if the controller
// did not answer within the timeout.
func FindDevice(ctx context.Context, hwAddr string, opts ...Option) (Device, error) {
	want := NormalizeHWAddr(hwAddr)
	opts = append(opts, WithExpectedHWAddrs(want))

	devices, err := NewScanner(opts...).DiscoverWithContext(ctx)
	if err != nil {
		return Device{}, err
	}

	for _, device := range devices {
		if device.HWAddr == want {
			return device, nil
		}
	}
	return Device{}, fmt.Errorf("device with hardware address %s not found within timeout", want)
}
