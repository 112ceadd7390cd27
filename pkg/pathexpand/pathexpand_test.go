package pathexpand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cdzombak/fileplan/pkg/filesystem"
)

func TestExpandPureModeRequiresAbsolute(t *testing.T) {
	result, ok, err := Expand("/already/absolute", false)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !ok || result != "/already/absolute" {
		t.Errorf("pure mode should pass an absolute path through unchanged, got %q ok=%v", result, ok)
	}
}

func TestExpandPureModeDropsRelative(t *testing.T) {
	_, ok, err := Expand("relative/path", false)
	if err != nil {
		t.Fatal("unexpected error for a dropped relative path:", err)
	}
	if ok {
		t.Error("pure mode should refuse a non-absolute path, not silently accept it")
	}
}

func TestExpandImpureModeTilde(t *testing.T) {
	result, ok, err := Expand("~/config", true)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !ok {
		t.Fatal("impure mode expansion of a tilde path unexpectedly declined")
	}
	expected := filepath.Join(filesystem.HomeDirectory, "config")
	if result != expected {
		t.Errorf("got %q, expected %q", result, expected)
	}
}

func TestExpandImpureModeBareTilde(t *testing.T) {
	result, ok, err := Expand("~", true)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !ok || result != filesystem.HomeDirectory {
		t.Errorf("got %q ok=%v, expected %q", result, ok, filesystem.HomeDirectory)
	}
}

func TestExpandImpureModeLeavesOtherUserTildeAlone(t *testing.T) {
	result, ok, err := Expand("~someoneelse/config", true)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !ok || result != "~someoneelse/config" {
		t.Errorf("another user's tilde path should be left untouched, got %q ok=%v", result, ok)
	}
}

func TestExpandImpureModeEnvironmentVariable(t *testing.T) {
	if err := os.Setenv("FILEPLAN_TEST_VAR", "/srv/data"); err != nil {
		t.Fatal("unable to set environment variable:", err)
	}
	defer os.Unsetenv("FILEPLAN_TEST_VAR")

	result, ok, err := Expand("${FILEPLAN_TEST_VAR}/sub", true)
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !ok || result != "/srv/data/sub" {
		t.Errorf("got %q ok=%v, expected /srv/data/sub", result, ok)
	}
}

func TestExpandImpureModeUndefinedVariableFails(t *testing.T) {
	os.Unsetenv("FILEPLAN_DEFINITELY_UNSET")

	_, _, err := Expand("${FILEPLAN_DEFINITELY_UNSET}/sub", true)
	if err == nil {
		t.Fatal("expansion of an undefined variable unexpectedly succeeded")
	}
	if _, ok := err.(*ExpansionError); !ok {
		t.Errorf("expected *ExpansionError, got %T: %v", err, err)
	}
}
