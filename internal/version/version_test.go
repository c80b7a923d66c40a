package version

import (
	"strings"
	"testing"
)

func TestVersionPopulated(t *testing.T) {
	if Version == "" {
		t.Error("Version should never be empty after init")
	}
	if Commit == "" {
		t.Error("Commit should never be empty after init")
	}
}

func TestString(t *testing.T) {
	got := String("ledenet")

	if !strings.HasPrefix(got, "ledenet "+Version) {
		t.Errorf("String() = %q, want prefix %q", got, "ledenet "+Version)
	}
	if !strings.HasSuffix(got, "(commit: "+Commit+")") {
		t.Errorf("String() = %q, should end with the commit", got)
	}
}
