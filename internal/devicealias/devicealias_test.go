package devicealias

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsEmptyMap(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected an empty map, got %v", m)
	}
}

func TestLoadParsesUIDToAliasPairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	contents := "AppleUSBAudioEngine:Foo:2:1:0: \"Studio Interface\"\nbuiltin-output: \"Laptop Speakers\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.Resolve("builtin-output", "fallback"); got != "Laptop Speakers" {
		t.Fatalf("Resolve(builtin-output) = %q, want %q", got, "Laptop Speakers")
	}
	if got := m.Resolve("AppleUSBAudioEngine:Foo:2:1:0", "fallback"); got != "Studio Interface" {
		t.Fatalf("Resolve(usb uid) = %q, want %q", got, "Studio Interface")
	}
}

func TestResolveFallsBackWhenUIDUnknown(t *testing.T) {
	m := Map{"known-uid": "Known Device"}
	if got := m.Resolve("unknown-uid", "Unknown"); got != "Unknown" {
		t.Fatalf("Resolve(unknown) = %q, want fallback %q", got, "Unknown")
	}
}

func TestResolveIgnoresEmptyAliasValue(t *testing.T) {
	m := Map{"uid": ""}
	if got := m.Resolve("uid", "fallback"); got != "fallback" {
		t.Fatalf("Resolve with empty alias = %q, want fallback", got)
	}
}

func TestNilMapResolvesToFallback(t *testing.T) {
	var m Map
	if got := m.Resolve("anything", "fallback"); got != "fallback" {
		t.Fatalf("Resolve on nil map = %q, want fallback", got)
	}
}
