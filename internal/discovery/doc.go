// Package discovery finds LED-strip WiFi controllers on the local network.
//
// The controllers are built around HF-A11 style WiFi modules. These answer
// a UDP broadcast of the "password" HF-A11ASSISTHREAD on port 48899 with a
// single datagram per module:
//
//	192.168.1.42,ACCF23A1B2C3,HF-LPB100-ZJ200
//
// The fields are the module's IP address, hardware address and model. The
// model identifies the WiFi module, not the LED controller behind it.
//
// # Discovery Process
//
//  1. Open an IPv4 UDP socket with SO_BROADCAST enabled
//  2. Send the probe once to the broadcast address
//  3. Read replies until the stopping predicate holds or the timeout passes
//  4. Return the complete replies in arrival order
//
// The scan stops early once at least Options.ExpectedDevices complete replies
// arrived and every expected model and hardware address was seen. The timeout
// is a single deadline for the whole receive loop; reaching it is a normal
// outcome and returns whatever was collected. Replies with fewer than three
// non-empty fields are dropped. Duplicate replies are kept.
//
// # Usage Example
//
//	devices, err := discovery.Discover(
//	    discovery.WithExpectedDevices(2),
//	    discovery.WithTimeout(3*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range devices {
//	    fmt.Printf("%s %s %s\n", d.IP, d.HWAddr, d.Model)
//	}
//
// # Hardware Addresses
//
// Expected hardware addresses are normalized with NormalizeHWAddr
// ("ac:cf:23:a1:b2:c3" becomes "ACCF23A1B2C3"). Received addresses are compared
// as sent, the modules already report them upper-case without separators.
//
// # Network Requirements
//
// - The host must be on the same broadcast domain as the controllers
// - Firewalls must allow inbound UDP from port 48899
package discovery
