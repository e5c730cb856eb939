// Package config manages the smartconfig registry file.
//
// The registry is a YAML file recording the networks credentials were sent
// for, the devices that acknowledged them, and user preferences for the CLI.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/smartconfig/config.yaml or $HOME/.config/smartconfig/config.yaml
//   - macOS: $HOME/.config/smartconfig/config.yaml
//   - Windows: %LOCALAPPDATA%\smartconfig\config.yaml
//
// # Security
//
// WiFi passwords are NEVER written to the registry. They are prompted for
// or passed on the command line for every attempt.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//
//	registry.RecordNetwork("HomeNet", "aa:bb:cc:dd:ee:ff", false, "192.168.1.10")
//	registry.RecordDevice("240ac4123456", "192.168.1.77", "HomeNet")
//
//	if err := registry.Save(); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for initialization. File writes are
// serialized by a mutex and performed atomically.
package config
