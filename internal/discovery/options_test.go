package discovery

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.ExpectedDevices != 1 {
		t.Errorf("ExpectedDevices = %v, want 1", opts.ExpectedDevices)
	}
	if opts.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", opts.Timeout)
	}
	if opts.UDPPort != 48899 {
		t.Errorf("UDPPort = %v, want 48899", opts.UDPPort)
	}
	if opts.BroadcastAddr != "255.255.255.255" {
		t.Errorf("BroadcastAddr = %v, want 255.255.255.255", opts.BroadcastAddr)
	}
	if len(opts.ExpectedModels) != 0 || len(opts.ExpectedHWAddrs) != 0 {
		t.Error("expectation sets should be empty by default")
	}
}

func TestNewOptions_MergesOverDefaults(t *testing.T) {
	opts := NewOptions(
		WithExpectedDevices(3),
		WithExpectedModels("HF-LPB100"),
		nil,
	)

	if opts.ExpectedDevices != 3 {
		t.Errorf("ExpectedDevices = %v, want 3", opts.ExpectedDevices)
	}
	if len(opts.ExpectedModels) != 1 || opts.ExpectedModels[0] != "HF-LPB100" {
		t.Errorf("ExpectedModels = %v, want [HF-LPB100]", opts.ExpectedModels)
	}
	if opts.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want default %v", opts.Timeout, DefaultTimeout)
	}
	if opts.UDPPort != DefaultUDPPort {
		t.Errorf("UDPPort = %v, want default %v", opts.UDPPort, DefaultUDPPort)
	}
}

func TestNewOptions_DoesNotShareDefaults(t *testing.T) {
	NewOptions(WithExpectedModels("A"))
	second := NewOptions()

	if len(second.ExpectedModels) != 0 {
		t.Errorf("second.ExpectedModels = %v, overrides leaked into defaults", second.ExpectedModels)
	}

	models := []string{"B"}
	third := NewOptions(WithExpectedModels(models...))
	models[0] = "changed"
	if third.ExpectedModels[0] != "B" {
		t.Errorf("ExpectedModels aliases the caller's slice: %v", third.ExpectedModels)
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{
			name: "defaults",
			opts: DefaultOptions(),
		},
		{
			name: "zero expected devices",
			opts: NewOptions(WithExpectedDevices(0)),
		},
		{
			name:    "negative expected devices",
			opts:    NewOptions(WithExpectedDevices(-1)),
			wantErr: "expected devices",
		},
		{
			name:    "zero timeout",
			opts:    NewOptions(WithTimeout(0)),
			wantErr: "timeout",
		},
		{
			name:    "port out of range",
			opts:    NewOptions(WithUDPPort(70000)),
			wantErr: "udp port",
		},
		{
			name:    "empty broadcast address",
			opts:    NewOptions(WithBroadcastAddr("")),
			wantErr: "broadcast address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpectation_SatisfiedBy(t *testing.T) {
	a := Device{IP: "10.0.0.1", HWAddr: "AABBCCDDEE01", Model: "X1"}
	b := Device{IP: "10.0.0.2", HWAddr: "AABBCCDDEE02", Model: "X2"}

	tests := []struct {
		name    string
		opts    Options
		devices []Device
		want    bool
	}{
		{
			name: "zero devices expected is satisfied immediately",
			opts: NewOptions(WithExpectedDevices(0)),
			want: true,
		},
		{
			name: "default needs one device",
			opts: DefaultOptions(),
			want: false,
		},
		{
			name:    "default satisfied by one device",
			opts:    DefaultOptions(),
			devices: []Device{a},
			want:    true,
		},
		{
			name:    "count reached but model missing",
			opts:    NewOptions(WithExpectedModels("X2")),
			devices: []Device{a},
			want:    false,
		},
		{
			name:    "count and model reached",
			opts:    NewOptions(WithExpectedModels("X2")),
			devices: []Device{a, b},
			want:    true,
		},
		{
			name:    "model reached but count missing",
			opts:    NewOptions(WithExpectedDevices(3), WithExpectedModels("X1")),
			devices: []Device{a, b},
			want:    false,
		},
		{
			name:    "duplicates count towards the total",
			opts:    NewOptions(WithExpectedDevices(3)),
			devices: []Device{a, a, a},
			want:    true,
		},
		{
			name:    "normalized expected address matches wire format",
			opts:    NewOptions(WithExpectedHWAddrs("aa:bb:cc:dd:ee:02")),
			devices: []Device{b},
			want:    true,
		},
		{
			name:    "both spellings of the same address are one expectation",
			opts:    NewOptions(WithExpectedHWAddrs("AA:BB:CC:DD:EE:02", "aabbccddee02")),
			devices: []Device{b},
			want:    true,
		},
		{
			name:    "received address is not normalized",
			opts:    NewOptions(WithExpectedHWAddrs("AABBCCDDEE03")),
			devices: []Device{{IP: "10.0.0.3", HWAddr: "aa:bb:cc:dd:ee:03", Model: "X3"}},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect := newExpectation(tt.opts)
			seen := newObserved()
			for _, d := range tt.devices {
				seen.add(d)
			}
			if got := expect.satisfiedBy(seen); got != tt.want {
				t.Errorf("satisfiedBy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewExpectation_NormalizesHWAddrs(t *testing.T) {
	expect := newExpectation(NewOptions(WithExpectedHWAddrs("AA:BB:CC:DD:EE:FF", "aabbccddeeff")))

	if len(expect.hwAddrs) != 1 {
		t.Fatalf("len(hwAddrs) = %d, want 1", len(expect.hwAddrs))
	}
	if _, ok := expect.hwAddrs["AABBCCDDEEFF"]; !ok {
		t.Errorf("hwAddrs = %v, want AABBCCDDEEFF", expect.hwAddrs)
	}
}
