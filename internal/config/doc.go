// Package config provides user configuration management for ledenet.
//
// This package manages a YAML configuration file holding discovery
// preferences (timeout, expected devices, port, broadcast address) and a
// registry of LED controllers seen by earlier scans, with optional nicknames.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/ledenet/config.yaml or $HOME/.config/ledenet/config.yaml
//   - macOS: $HOME/.config/ledenet/config.yaml
//   - Windows: %LOCALAPPDATA%\ledenet\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	devices, err := discovery.Discover(registry.Preferences.DiscoveryOptions()...)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.RecordDiscovered(devices, time.Now())
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for initialization. File writes are
// serialized by a mutex and go through a temporary file and rename.
package config
