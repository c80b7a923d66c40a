package discovery

import (
	"fmt"
	"strings"
)

// replyFieldSeparator separates the fields of a discovery reply
const replyFieldSeparator = ","

// Device represents one LED controller that answered the discovery probe.
// Values are taken verbatim from the reply and are never normalized.
type Device struct {
	// IP is the address the controller reports for itself (e.g., "192.168.1.42")
	IP string

	// HWAddr is the WiFi module hardware address as sent by the controller
	// (e.g., "ACCF23A1B2C3")
	HWAddr string

	// Model is the WiFi module model token (e.g., "HF-LPB100-ZJ200")
	Model string
}

// ParseDevice parses a raw reply payload of the form "ip,hwaddr,model".
// Only the first three fields are used; extra fields are ignored and missing
// fields are left empty. Parsing never fails, use Complete to check the result.
func ParseDevice(payload []byte) Device {
	fields := strings.SplitN(string(payload), replyFieldSeparator, 4)

	var device Device
	if len(fields) > 0 {
		device.IP = fields[0]
	}
	if len(fields) > 1 {
		device.HWAddr = fields[1]
	}
	if len(fields) > 2 {
		device.Model = fields[2]
	}
	return device
}

// Complete reports whether all three fields are present
func (d Device) Complete() bool {
	return d.IP != "" && d.HWAddr != "" && d.Model != ""
}

// Line returns the device in reply wire format
func (d Device) Line() string {
	return strings.Join([]string{d.IP, d.HWAddr, d.Model}, replyFieldSeparator)
}

// String returns a human-readable string representation of the device
func (d Device) String() string {
	return fmt.Sprintf("LED controller %s (%s) at %s", d.HWAddr, d.Model, d.IP)
}

// NormalizeHWAddr strips ':' and '-' separators and upper-cases a hardware address.
func NormalizeHWAddr(addr string) string {
	addr = strings.ReplaceAll(addr, ":", "")
	addr = strings.ReplaceAll(addr, "-", "")
	return strings.ToUpper(addr)
}
