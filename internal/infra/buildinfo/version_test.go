package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" {
		t.Error("Version should not be empty")
	}
	if info.Commit == "" {
		t.Error("Commit should not be empty")
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("GoVersion = %q, want a go toolchain version", info.GoVersion)
	}
}

func TestString(t *testing.T) {
	want := Version + " (" + Commit + ") built at " + BuildTime
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestLogAttrs(t *testing.T) {
	attrs := LogAttrs()
	if len(attrs) != 3 {
		t.Fatalf("LogAttrs() len = %d, want 3", len(attrs))
	}
	if attrs[0].Key != "version" {
		t.Errorf("first attr key = %q, want version", attrs[0].Key)
	}
}
