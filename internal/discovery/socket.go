package discovery

import (
	"context"
	"net"
	"syscall"
)

// listenFunc opens the packet socket used for one scan
type listenFunc func(ctx context.Context) (net.PacketConn, error)

// listenBroadcast opens an IPv4 UDP socket on an ephemeral port with
// SO_BROADCAST enabled. Controllers answer to the source port of the probe.
func listenBroadcast(ctx context.Context) (net.PacketConn, error) {
	lc := net.ListenConfig{Control: broadcastControl}
	return lc.ListenPacket(ctx, "udp4", ":0")
}

func broadcastControl(network, address string, c syscall.RawConn) error {
	var sockErr error
	if err := c.Control(func(fd uintptr) {
		sockErr = setBroadcast(fd)
	}); err != nil {
		return err
	}
	if sockErr != nil {
		return &TransportError{
			Op:      "enable broadcast",
			Details: address,
			Err:     sockErr,
		}
	}
	return nil
}
