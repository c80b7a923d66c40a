package discovery

import (
	"testing"
)

func TestParseDevice(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		want         Device
		wantComplete bool
	}{
		{
			name:         "standard reply",
			payload:      "192.168.1.42,ACCF23A1B2C3,HF-LPB100-ZJ200",
			want:         Device{IP: "192.168.1.42", HWAddr: "ACCF23A1B2C3", Model: "HF-LPB100-ZJ200"},
			wantComplete: true,
		},
		{
			name:         "extra fields are ignored",
			payload:      "10.0.0.5,600194B1C2D3,AK001-ZJ2101,extra,more",
			want:         Device{IP: "10.0.0.5", HWAddr: "600194B1C2D3", Model: "AK001-ZJ2101"},
			wantComplete: true,
		},
		{
			name:         "hardware address kept verbatim",
			payload:      "10.0.0.6,ac:cf:23:a1:b2:c3,HF-LPB100",
			want:         Device{IP: "10.0.0.6", HWAddr: "ac:cf:23:a1:b2:c3", Model: "HF-LPB100"},
			wantComplete: true,
		},
		{
			name:         "hostname instead of IP",
			payload:      "ledstrip.lan,ACCF23A1B2C3,HF-LPB100",
			want:         Device{IP: "ledstrip.lan", HWAddr: "ACCF23A1B2C3", Model: "HF-LPB100"},
			wantComplete: true,
		},
		{
			name:         "two fields",
			payload:      "192.168.1.42,ACCF23A1B2C3",
			want:         Device{IP: "192.168.1.42", HWAddr: "ACCF23A1B2C3"},
			wantComplete: false,
		},
		{
			name:         "one field",
			payload:      "192.168.1.42",
			want:         Device{IP: "192.168.1.42"},
			wantComplete: false,
		},
		{
			name:         "empty payload",
			payload:      "",
			want:         Device{},
			wantComplete: false,
		},
		{
			name:         "empty middle field",
			payload:      "192.168.1.42,,HF-LPB100",
			want:         Device{IP: "192.168.1.42", Model: "HF-LPB100"},
			wantComplete: false,
		},
		{
			name:         "trailing separator",
			payload:      "192.168.1.42,ACCF23A1B2C3,",
			want:         Device{IP: "192.168.1.42", HWAddr: "ACCF23A1B2C3"},
			wantComplete: false,
		},
		{
			name:         "probe echo",
			payload:      Probe,
			want:         Device{IP: Probe},
			wantComplete: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDevice([]byte(tt.payload))
			if got != tt.want {
				t.Errorf("ParseDevice(%q) = %+v, want %+v", tt.payload, got, tt.want)
			}
			if got.Complete() != tt.wantComplete {
				t.Errorf("ParseDevice(%q).Complete() = %v, want %v", tt.payload, got.Complete(), tt.wantComplete)
			}
		})
	}
}

func TestDevice_Line(t *testing.T) {
	device := Device{IP: "192.168.1.42", HWAddr: "ACCF23A1B2C3", Model: "HF-LPB100"}

	expected := "192.168.1.42,ACCF23A1B2C3,HF-LPB100"
	if device.Line() != expected {
		t.Errorf("Device.Line() = %v, want %v", device.Line(), expected)
	}

	if parsed := ParseDevice([]byte(device.Line())); parsed != device {
		t.Errorf("ParseDevice(Line()) = %+v, want %+v", parsed, device)
	}
}

func TestDevice_String(t *testing.T) {
	device := Device{IP: "192.168.1.42", HWAddr: "ACCF23A1B2C3", Model: "HF-LPB100"}

	expected := "LED controller ACCF23A1B2C3 (HF-LPB100) at 192.168.1.42"
	if device.String() != expected {
		t.Errorf("Device.String() = %v, want %v", device.String(), expected)
	}
}

func TestNormalizeHWAddr(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AA:BB:CC:DD:EE:FF", "AABBCCDDEEFF"},
		{"aabbccddeeff", "AABBCCDDEEFF"},
		{"aa-bb-cc-dd-ee-ff", "AABBCCDDEEFF"},
		{"Aa:bB-cC:Dd-eE:fF", "AABBCCDDEEFF"},
		{"ACCF23A1B2C3", "ACCF23A1B2C3"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeHWAddr(tt.input); got != tt.expected {
				t.Errorf("NormalizeHWAddr(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
