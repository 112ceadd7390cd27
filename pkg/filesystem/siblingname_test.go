package filesystem

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSiblingPathSameDirectory(t *testing.T) {
	target := filepath.Join("/some/nested", "target")
	sibling, err := SiblingPath(target, "prefix-")
	if err != nil {
		t.Fatal("unable to generate sibling path:", err)
	}
	if filepath.Dir(sibling) != filepath.Dir(target) {
		t.Error("sibling path was not in target's directory:", sibling)
	}
	if !strings.HasPrefix(filepath.Base(sibling), "prefix-") {
		t.Error("sibling path did not carry the requested prefix:", sibling)
	}
}

func TestSiblingPathUnique(t *testing.T) {
	target := filepath.Join("/some/nested", "target")
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		sibling, err := SiblingPath(target, "prefix-")
		if err != nil {
			t.Fatal("unable to generate sibling path:", err)
		}
		if seen[sibling] {
			t.Fatal("sibling path generator produced a duplicate:", sibling)
		}
		seen[sibling] = true
	}
}
