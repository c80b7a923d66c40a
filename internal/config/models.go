package config

import (
	"sort"
	"strings"
	"time"

	"github.com/muurk/ledenet/internal/discovery"
)

// Registry represents the entire user configuration file.
// This stores discovery preferences and the controllers seen so far.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by normalized hardware address
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents what is known about one LED controller
type Device struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name (e.g., "Kitchen Cabinets")
	Model    string    `yaml:"model,omitempty"`     // Last reported WiFi module model
	LastIP   string    `yaml:"last_ip,omitempty"`   // Last reported IP address
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery time
}

// Preferences holds the discovery defaults used by the CLI.
// Zero values fall back to the discovery package defaults.
type Preferences struct {
	DiscoverTimeout int      `yaml:"discover_timeout"`           // Scan timeout in seconds
	ExpectedDevices int      `yaml:"expected_devices"`           // Replies needed before stopping early
	ExpectedModels  []string `yaml:"expected_models,omitempty"`  // Models that must all answer
	ExpectedHWAddrs []string `yaml:"expected_hw_addrs,omitempty"` // Hardware addresses that must all answer
	UDPPort         int      `yaml:"udp_port,omitempty"`         // Probe destination port
	BroadcastAddr   string   `yaml:"broadcast_addr,omitempty"`   // Probe destination address
}

// KnownDevice pairs a registry entry with its hardware address
type KnownDevice struct {
	HWAddr string
	*Device
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Devices:     make(map[string]*Device),
		Preferences: defaultPreferences(),
	}
}

func defaultPreferences() *Preferences {
	return &Preferences{
		DiscoverTimeout: int(discovery.DefaultTimeout / time.Second),
		ExpectedDevices: discovery.DefaultExpectedDevices,
		UDPPort:         discovery.DefaultUDPPort,
		BroadcastAddr:   discovery.DefaultBroadcastAddr,
	}
}

// DiscoveryOptions converts the preferences into discovery options.
// Unset fields are skipped so the discovery defaults apply.
func (p *Preferences) DiscoveryOptions() []discovery.Option {
	if p == nil {
		return nil
	}

	var opts []discovery.Option
	if p.DiscoverTimeout > 0 {
		opts = append(opts, discovery.WithTimeout(time.Duration(p.DiscoverTimeout)*time.Second))
	}
	if p.ExpectedDevices > 0 {
		opts = append(opts, discovery.WithExpectedDevices(p.ExpectedDevices))
	}
	if len(p.ExpectedModels) > 0 {
		opts = append(opts, discovery.WithExpectedModels(p.ExpectedModels...))
	}
	if len(p.ExpectedHWAddrs) > 0 {
		opts = append(opts, discovery.WithExpectedHWAddrs(p.ExpectedHWAddrs...))
	}
	if p.UDPPort > 0 {
		opts = append(opts, discovery.WithUDPPort(p.UDPPort))
	}
	if p.BroadcastAddr != "" {
		opts = append(opts, discovery.WithBroadcastAddr(p.BroadcastAddr))
	}
	return opts
}

// GetDevice retrieves a device by hardware address in any spelling.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(hwAddr string) *Device {
	return r.Devices[discovery.NormalizeHWAddr(hwAddr)]
}

// EnsureDevice ensures a device entry exists in the registry.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(hwAddr string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	key := discovery.NormalizeHWAddr(hwAddr)
	if device, exists := r.Devices[key]; exists {
		return device
	}

	device := &Device{}
	r.Devices[key] = device
	return device
}

// RecordDiscovered updates the registry with the results of a scan.
// Returns the number of devices not seen before.
func (r *Registry) RecordDiscovered(devices []discovery.Device, seenAt time.Time) int {
	added := 0
	for _, d := range devices {
		if r.GetDevice(d.HWAddr) == nil {
			added++
		}
		entry := r.EnsureDevice(d.HWAddr)
		entry.LastIP = d.IP
		entry.Model = d.Model
		entry.LastSeen = seenAt
	}
	return added
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(hwAddr, nickname string) {
	r.EnsureDevice(hwAddr).Nickname = nickname
}

// RemoveDevice deletes a device from the registry.
// Returns false if the device was not present.
func (r *Registry) RemoveDevice(hwAddr string) bool {
	key := discovery.NormalizeHWAddr(hwAddr)
	if _, ok := r.Devices[key]; !ok {
		return false
	}
	delete(r.Devices, key)
	return true
}

// Nickname returns the nickname for a hardware address, or "" if unknown
func (r *Registry) Nickname(hwAddr string) string {
	if device := r.GetDevice(hwAddr); device != nil {
		return device.Nickname
	}
	return ""
}

// FindByNickname returns the device with the given nickname, ignoring case,
// or nil if no device has it
func (r *Registry) FindByNickname(nickname string) *KnownDevice {
	for _, known := range r.SortedDevices() {
		if known.Nickname != "" && strings.EqualFold(known.Nickname, nickname) {
			return &known
		}
	}
	return nil
}

// SortedDevices returns the registry entries ordered by hardware address
func (r *Registry) SortedDevices() []KnownDevice {
	known := make([]KnownDevice, 0, len(r.Devices))
	for hwAddr, device := range r.Devices {
		known = append(known, KnownDevice{HWAddr: hwAddr, Device: device})
	}
	sort.Slice(known, func(i, j int) bool {
		return known[i].HWAddr < known[j].HWAddr
	})
	return known
}
