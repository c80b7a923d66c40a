package discovery

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultExpectedDevices is the number of complete replies that ends a scan early
	DefaultExpectedDevices = 1

	// DefaultTimeout bounds the whole receive loop
	DefaultTimeout = 5 * time.Second

	// DefaultUDPPort is the port HF-A11 WiFi modules listen on for the probe
	DefaultUDPPort = 48899

	// DefaultBroadcastAddr is the limited broadcast address
	DefaultBroadcastAddr = "255.255.255.255"
)

// Options controls a single discovery run.
//
// A scan stops early once at least ExpectedDevices complete replies arrived,
// every model in ExpectedModels was seen and every address in ExpectedHWAddrs
// was seen. Otherwise it runs until Timeout.
type Options struct {
	// ExpectedDevices is the minimum number of accepted replies before stopping
	ExpectedDevices int

	// Timeout is the wall-clock bound of the receive loop
	Timeout time.Duration

	// ExpectedModels must all be observed before stopping
	ExpectedModels []string

	// ExpectedHWAddrs must all be observed before stopping. Entries are
	// normalized with NormalizeHWAddr before comparison.
	ExpectedHWAddrs []string

	// UDPPort is the destination port of the probe
	UDPPort int

	// BroadcastAddr is the destination address of the probe
	BroadcastAddr string
}

// Option overrides a single field of Options
type Option func(*Options)

// DefaultOptions returns a fresh copy of the default options
func DefaultOptions() Options {
	return Options{
		ExpectedDevices: DefaultExpectedDevices,
		Timeout:         DefaultTimeout,
		UDPPort:         DefaultUDPPort,
		BroadcastAddr:   DefaultBroadcastAddr,
	}
}

// NewOptions merges opts over the defaults
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithExpectedDevices sets the minimum number of replies before stopping early
func WithExpectedDevices(n int) Option {
	return func(o *Options) {
		o.ExpectedDevices = n
	}
}

// WithTimeout sets the overall scan timeout
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithExpectedModels sets the models that must all be observed
func WithExpectedModels(models ...string) Option {
	return func(o *Options) {
		o.ExpectedModels = append([]string(nil), models...)
	}
}

// WithExpectedHWAddrs sets the hardware addresses that must all be observed
func WithExpectedHWAddrs(addrs ...string) Option {
	return func(o *Options) {
		o.ExpectedHWAddrs = append([]string(nil), addrs...)
	}
}

// WithUDPPort sets the probe destination port
func WithUDPPort(port int) Option {
	return func(o *Options) {
		o.UDPPort = port
	}
}

// WithBroadcastAddr sets the probe destination address
func WithBroadcastAddr(addr string) Option {
	return func(o *Options) {
		o.BroadcastAddr = addr
	}
}

// Validate checks that the options describe a runnable scan
func (o Options) Validate() error {
	var errs []error

	if o.ExpectedDevices < 0 {
		errs = append(errs, fmt.Errorf("expected devices must not be negative, got %d", o.ExpectedDevices))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %v", o.Timeout))
	}
	if o.UDPPort < 1 || o.UDPPort > 65535 {
		errs = append(errs, fmt.Errorf("udp port must be between 1 and 65535, got %d", o.UDPPort))
	}
	if o.BroadcastAddr == "" {
		errs = append(errs, errors.New("broadcast address must not be empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid discovery options: %w", errors.Join(errs...))
	}
	return nil
}

// expectation is the stopping predicate of a scan
type expectation struct {
	devices int
	models  map[string]struct{}
	hwAddrs map[string]struct{}
}

func newExpectation(o Options) expectation {
	e := expectation{
		devices: o.ExpectedDevices,
		models:  make(map[string]struct{}, len(o.ExpectedModels)),
		hwAddrs: make(map[string]struct{}, len(o.ExpectedHWAddrs)),
	}
	for _, model := range o.ExpectedModels {
		e.models[model] = struct{}{}
	}
	for _, addr := range o.ExpectedHWAddrs {
		e.hwAddrs[NormalizeHWAddr(addr)] = struct{}{}
	}
	return e
}

// observed accumulates what a scan has seen so far
type observed struct {
	devices []Device
	models  map[string]struct{}
	hwAddrs map[string]struct{}
}

func newObserved() *observed {
	return &observed{
		devices: make([]Device, 0),
		models:  make(map[string]struct{}),
		hwAddrs: make(map[string]struct{}),
	}
}

// add records a complete device. Hardware addresses are stored as received.
func (s *observed) add(d Device) {
	s.devices = append(s.devices, d)
	s.models[d.Model] = struct{}{}
	s.hwAddrs[d.HWAddr] = struct{}{}
}

// satisfiedBy reports whether the scan may stop
func (e expectation) satisfiedBy(s *observed) bool {
	return len(s.devices) >= e.devices &&
		isSubset(e.models, s.models) &&
		isSubset(e.hwAddrs, s.hwAddrs)
}

func isSubset(want, have map[string]struct{}) bool {
	for k := range want {
		if _, ok := have[k]; !ok {
			return false
		}
	}
	return true
}
