package reconcile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestObserveAbsent(t *testing.T) {
	state, err := Observe(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatal("unable to observe:", err)
	}
	if state.Kind != ObservedAbsent {
		t.Errorf("expected ObservedAbsent, got %v", state.Kind)
	}
}

func TestObserveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal("unable to create file:", err)
	}

	state, err := Observe(path)
	if err != nil {
		t.Fatal("unable to observe:", err)
	}
	if state.Kind != ObservedFile {
		t.Errorf("expected ObservedFile, got %v", state.Kind)
	}
}

func TestObserveDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir")
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal("unable to create directory:", err)
	}

	state, err := Observe(path)
	if err != nil {
		t.Fatal("unable to observe:", err)
	}
	if state.Kind != ObservedDirectory {
		t.Errorf("expected ObservedDirectory, got %v", state.Kind)
	}
}

func TestObserveSymlinkNotFollowed(t *testing.T) {
	directory := t.TempDir()
	target := filepath.Join(directory, "target")
	link := filepath.Join(directory, "link")
	if err := os.WriteFile(target, []byte("content"), 0644); err != nil {
		t.Fatal("unable to create link target:", err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatal("unable to create symlink:", err)
	}

	state, err := Observe(link)
	if err != nil {
		t.Fatal("unable to observe:", err)
	}
	if state.Kind != ObservedSymlink {
		t.Errorf("expected ObservedSymlink (not followed to the regular file), got %v", state.Kind)
	}
}
