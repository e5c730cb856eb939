package discovery

import "testing"

func TestDevice_String(t *testing.T) {
	device := &Device{
		Instance: "Kitchen Plug",
		Hostname: "esp32-123456.local.",
		IP:       "192.168.1.77",
		Port:     80,
	}

	expected := "Kitchen Plug (esp32-123456.local.) at 192.168.1.77:80"
	if device.String() != expected {
		t.Errorf("Device.String() = %v, want %v", device.String(), expected)
	}
}

func TestDevice_GetMetadata(t *testing.T) {
	device := &Device{
		Metadata: map[string]string{
			"path": "/",
			"mac":  "24:0a:c4:12:34:56",
		},
	}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"existing key", "path", "/"},
		{"another existing key", "mac", "24:0a:c4:12:34:56"},
		{"non-existent key", "missing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := device.GetMetadata(tt.key); got != tt.expected {
				t.Errorf("Device.GetMetadata(%v) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}

	if got := (&Device{}).GetMetadata("anything"); got != "" {
		t.Errorf("Device.GetMetadata() with nil map = %v, want empty string", got)
	}
}

func TestDevice_HasAddress(t *testing.T) {
	device := &Device{Addresses: []string{"192.168.1.77", "fe80::1"}}

	if !device.HasAddress("192.168.1.77") {
		t.Error("HasAddress(192.168.1.77) = false, want true")
	}
	if !device.HasAddress("fe80::1") {
		t.Error("HasAddress(fe80::1) = false, want true")
	}
	if device.HasAddress("192.168.1.78") {
		t.Error("HasAddress(192.168.1.78) = true, want false")
	}
}

func TestDevice_MatchesMAC(t *testing.T) {
	tests := []struct {
		name   string
		device *Device
		mac    string
		want   bool
	}{
		{
			name:   "txt record with separators",
			device: &Device{MAC: "24:0A:C4:12:34:56"},
			mac:    "240ac4123456",
			want:   true,
		},
		{
			name:   "caller mac in registry notation",
			device: &Device{MAC: "240ac4123456"},
			mac:    " 24-0A-C4-12-34-56 ",
			want:   true,
		},
		{
			name:   "hostname suffix",
			device: &Device{Hostname: "esp32-123456.local."},
			mac:    "240ac4123456",
			want:   true,
		},
		{
			name:   "uppercase hostname suffix",
			device: &Device{Hostname: "ESP_Light-ABCDEF.local"},
			mac:    "240ac4abcdef",
			want:   true,
		},
		{
			name:   "different suffix",
			device: &Device{Hostname: "esp32-654321.local."},
			mac:    "240ac4123456",
			want:   false,
		},
		{
			name:   "hostname without suffix",
			device: &Device{Hostname: "espressif.local."},
			mac:    "240ac4123456",
			want:   false,
		},
		{
			name:   "non-hex suffix",
			device: &Device{Hostname: "plug-kitchn.local."},
			mac:    "240ac4123456",
			want:   false,
		},
		{
			name:   "empty mac",
			device: &Device{MAC: "", Hostname: "esp32-123456.local."},
			mac:    "",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.MatchesMAC(tt.mac); got != tt.want {
				t.Errorf("MatchesMAC(%q) = %v, want %v", tt.mac, got, tt.want)
			}
		})
	}
}
