package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}
	dir := t.TempDir()
	t.Setenv(ConfigDirEnvVar, "")
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(dir, "smartconfig"); configDir != want {
		t.Errorf("GetConfigDir() = %v, want %v", configDir, want)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestGetConfigDir_Override(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnvVar, dir)

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if configDir != dir {
		t.Errorf("GetConfigDir() = %v, want %v", configDir, dir)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Networks == nil || reg.Devices == nil {
		t.Error("NewRegistry() maps should not be nil")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if !reg.Preferences.VerifyAfterProvision {
		t.Error("VerifyAfterProvision should be true by default")
	}
	if reg.Preferences.DiscoverTimeout != 10 {
		t.Errorf("DiscoverTimeout = %v, want 10", reg.Preferences.DiscoverTimeout)
	}
	if reg.Preferences.ServiceType != DefaultServiceType {
		t.Errorf("ServiceType = %v, want %v", reg.Preferences.ServiceType, DefaultServiceType)
	}
}

func TestNormalizeMAC(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"24:0A:C4:12:34:56", "240ac4123456"},
		{"24-0a-c4-12-34-56", "240ac4123456"},
		{"240ac4123456", "240ac4123456"},
		{" 240AC4123456 ", "240ac4123456"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeMAC(tt.input); got != tt.want {
				t.Errorf("NormalizeMAC(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := NewRegistry()

	device1 := reg.EnsureDevice("24:0a:c4:12:34:56")
	if device1 == nil {
		t.Fatal("EnsureDevice() returned nil")
	}

	// Same device in another notation
	device2 := reg.EnsureDevice("240AC4123456")
	if device1 != device2 {
		t.Error("EnsureDevice() should return same instance for same MAC")
	}

	device3 := reg.EnsureDevice("240ac4abcdef")
	if device1 == device3 {
		t.Error("EnsureDevice() should create new instance for different MAC")
	}

	if got := reg.DeviceMACs(); len(got) != 2 || got[0] != "240ac4123456" || got[1] != "240ac4abcdef" {
		t.Errorf("DeviceMACs() = %v", got)
	}
}

func TestRegistryRecordNetworkAndDevice(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	network := reg.RecordNetwork("HomeNet", "aa:bb:cc:dd:ee:ff", true, "192.168.1.10")
	device := reg.RecordDevice("240ac4123456", "192.168.1.77", "HomeNet")
	after := time.Now()

	if network.BSSID != "aa:bb:cc:dd:ee:ff" || !network.Hidden || network.LastIP != "192.168.1.10" {
		t.Errorf("RecordNetwork() = %+v", network)
	}
	if network.Provisions != 1 {
		t.Errorf("network.Provisions = %d, want 1", network.Provisions)
	}
	if network.LastUsed.Before(before) || network.LastUsed.After(after) {
		t.Errorf("LastUsed = %v, should be between %v and %v", network.LastUsed, before, after)
	}

	if device.LastIP != "192.168.1.77" || device.Network != "HomeNet" {
		t.Errorf("RecordDevice() = %+v", device)
	}
	if device.ProvisionedAt.Before(before) || device.ProvisionedAt.After(after) {
		t.Errorf("ProvisionedAt = %v, should be between %v and %v", device.ProvisionedAt, before, after)
	}

	// Unknown network is not created implicitly
	reg.RecordDevice("240ac4abcdef", "192.168.1.78", "Elsewhere")
	if reg.GetNetwork("Elsewhere") != nil {
		t.Error("RecordDevice() created a network entry")
	}
}

func TestRegistryMarkVerified(t *testing.T) {
	reg := NewRegistry()
	reg.MarkVerified("24:0a:c4:12:34:56", "esp32-123456.local.")

	device := reg.GetDevice("240ac4123456")
	if device == nil {
		t.Fatal("Device should exist after MarkVerified()")
	}
	if device.Hostname != "esp32-123456.local." {
		t.Errorf("Hostname = %v", device.Hostname)
	}
	if device.VerifiedAt.IsZero() {
		t.Error("VerifiedAt not set")
	}
}

func TestRegistryDeviceMACByIP(t *testing.T) {
	reg := NewRegistry()
	reg.RecordDevice("24:0a:c4:00:00:01", "192.168.1.50", "HomeNet")
	reg.Devices["240ac4000001"].ProvisionedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	reg.RecordDevice("24:0a:c4:00:00:02", "192.168.1.50", "HomeNet")
	reg.Devices["240ac4000002"].ProvisionedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	reg.RecordDevice("24:0a:c4:00:00:03", "192.168.1.60", "HomeNet")

	tests := []struct {
		ip   string
		want string
	}{
		{"192.168.1.50", "240ac4000002"},
		{"192.168.1.60", "240ac4000003"},
		{"192.168.1.70", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := reg.DeviceMACByIP(tt.ip); got != tt.want {
			t.Errorf("DeviceMACByIP(%q) = %q, want %q", tt.ip, got, tt.want)
		}
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	reg.RecordNetwork("HomeNet", "aa:bb:cc:dd:ee:ff", false, "192.168.1.10")
	reg.RecordDevice("240ac4123456", "192.168.1.77", "HomeNet")
	reg.SetDeviceNickname("240ac4123456", "Kitchen Plug")
	reg.Preferences.DiscoverTimeout = 5

	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	loaded, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}

	device := loaded.GetDevice("24:0A:C4:12:34:56")
	if device == nil {
		t.Fatal("Device should exist in loaded registry")
	}
	if device.Nickname != "Kitchen Plug" || device.LastIP != "192.168.1.77" {
		t.Errorf("loaded device = %+v", device)
	}
	if network := loaded.GetNetwork("HomeNet"); network == nil || network.Provisions != 1 {
		t.Errorf("loaded network = %+v", network)
	}
	if loaded.Preferences.DiscoverTimeout != 5 {
		t.Errorf("loaded DiscoverTimeout = %d, want 5", loaded.Preferences.DiscoverTimeout)
	}
}

func TestRegistryNeverStoresPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	reg := NewRegistry()
	reg.RecordNetwork("HomeNet", "aa:bb:cc:dd:ee:ff", false, "192.168.1.10")
	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "password") {
			t.Errorf("config contains a password key: %q", line)
		}
	}
}

func TestLoadRegistryFrom(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, reg *Registry)
	}{
		{
			name:    "missing preferences get defaults",
			content: "version: 1\n",
			check: func(t *testing.T, reg *Registry) {
				if reg.Preferences == nil || reg.Preferences.ServiceType != DefaultServiceType {
					t.Errorf("Preferences = %+v, want defaults", reg.Preferences)
				}
				if reg.Devices == nil || reg.Networks == nil {
					t.Error("maps not initialized")
				}
			},
		},
		{
			name: "zero timeout replaced",
			content: `version: 1
preferences:
  verify_after_provision: false
  discover_timeout: 0
`,
			check: func(t *testing.T, reg *Registry) {
				if reg.Preferences.VerifyAfterProvision {
					t.Error("VerifyAfterProvision = true, want false from file")
				}
				if reg.Preferences.DiscoverTimeout != DefaultDiscoverTimeout {
					t.Errorf("DiscoverTimeout = %d, want %d", reg.Preferences.DiscoverTimeout, DefaultDiscoverTimeout)
				}
			},
		},
		{
			name:    "unsupported version",
			content: "version: 2\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			content: "version: [1\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			reg, err := LoadRegistryFrom(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadRegistryFrom() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, reg)
			}
		})
	}
}

func TestLoadRegistryFrom_Missing(t *testing.T) {
	reg, err := LoadRegistryFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Version != 1 || len(reg.Devices) != 0 {
		t.Errorf("LoadRegistryFrom() = %+v, want fresh registry", reg)
	}
}

func BenchmarkEnsureDevice(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureDevice("24:0a:c4:12:34:56")
	}
}
