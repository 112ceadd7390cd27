package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cdzombak/fileplan/pkg/manifest"
)

func modePtr(m manifest.Mode) *manifest.Mode { return &m }

func TestEquivalentDeleteAgainstAbsent(t *testing.T) {
	entry := &manifest.Entry{Kind: manifest.KindDelete, Target: "/anything"}
	equivalent, err := Equivalent(entry, &ObservedState{Kind: ObservedAbsent})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !equivalent {
		t.Error("delete entry should be equivalent to an absent target")
	}
}

func TestEquivalentDeleteAgainstPresent(t *testing.T) {
	entry := &manifest.Entry{Kind: manifest.KindDelete, Target: "/anything"}
	equivalent, err := Equivalent(entry, &ObservedState{Kind: ObservedFile})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if equivalent {
		t.Error("delete entry should not be equivalent to a present target")
	}
}

func TestEquivalentDirectoryChecksPermissions(t *testing.T) {
	entry := &manifest.Entry{Kind: manifest.KindDirectory, Target: "/d", Permissions: modePtr(0o755)}

	matching, err := Equivalent(entry, &ObservedState{Kind: ObservedDirectory, Permission: 0o755})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !matching {
		t.Error("directory with matching permissions should be equivalent")
	}

	mismatched, err := Equivalent(entry, &ObservedState{Kind: ObservedDirectory, Permission: 0o700})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if mismatched {
		t.Error("directory with mismatched permissions should not be equivalent")
	}
}

func TestEquivalentCopyIgnoreModificationSkipsContentCheck(t *testing.T) {
	directory := t.TempDir()
	source := filepath.Join(directory, "source")
	target := filepath.Join(directory, "target")
	if err := os.WriteFile(source, []byte("source content"), 0644); err != nil {
		t.Fatal("unable to write source:", err)
	}
	if err := os.WriteFile(target, []byte("different content, same metadata"), 0644); err != nil {
		t.Fatal("unable to write target:", err)
	}

	ignore := true
	entry := &manifest.Entry{
		Kind: manifest.KindCopy, Target: target, Source: &source,
		IgnoreModification: &ignore,
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatal("unable to stat target:", err)
	}
	equivalent, err := Equivalent(entry, &ObservedState{Kind: ObservedFile, Permission: info.Mode().Perm()})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !equivalent {
		t.Error("ignore_modification should skip the content check and report equivalence")
	}
}

func TestEquivalentCopyDetectsContentDrift(t *testing.T) {
	directory := t.TempDir()
	source := filepath.Join(directory, "source")
	target := filepath.Join(directory, "target")
	if err := os.WriteFile(source, []byte("source content"), 0644); err != nil {
		t.Fatal("unable to write source:", err)
	}
	if err := os.WriteFile(target, []byte("drifted content!"), 0644); err != nil {
		t.Fatal("unable to write target:", err)
	}

	entry := &manifest.Entry{Kind: manifest.KindCopy, Target: target, Source: &source}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatal("unable to stat target:", err)
	}
	equivalent, err := Equivalent(entry, &ObservedState{Kind: ObservedFile, Permission: info.Mode().Perm()})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if equivalent {
		t.Error("drifted content should not be reported equivalent")
	}
}

func TestEquivalentSymlinkPointsAtSource(t *testing.T) {
	directory := t.TempDir()
	source := filepath.Join(directory, "source")
	target := filepath.Join(directory, "target")
	if err := os.WriteFile(source, []byte("content"), 0644); err != nil {
		t.Fatal("unable to write source:", err)
	}
	if err := os.Symlink(source, target); err != nil {
		t.Fatal("unable to create symlink:", err)
	}

	noFollow := false
	entry := &manifest.Entry{Kind: manifest.KindSymlink, Target: target, Source: &source, FollowSymlinks: &noFollow}

	equivalent, err := Equivalent(entry, &ObservedState{Kind: ObservedSymlink})
	if err != nil {
		t.Fatal("unexpected error:", err)
	}
	if !equivalent {
		t.Error("symlink pointing at source should be equivalent")
	}
}
