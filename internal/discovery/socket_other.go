//go:build !unix && !windows

package discovery

// Platforms without socket options rely on the runtime defaults.
func setBroadcast(fd uintptr) error {
	return nil
}
