package manifest

import (
	"path/filepath"
	"reflect"
	"sort"
	"strings"
)

// Entry is a single desired piece of filesystem state. Entries are
// immutable once deserialized; reconciliation only ever mutates filesystem
// state, never the entry itself.
type Entry struct {
	// Source is the absolute path of the content to place. Required for
	// Copy, RecursiveLink, and Symlink; must be nil otherwise.
	Source *string `json:"source,omitempty"`
	// Target is the absolute path (in pure mode) where the entry shall
	// exist.
	Target string `json:"target"`
	// Kind selects the entry variant.
	Kind Kind `json:"type"`
	// Clobber overrides the manifest's default clobber policy for this
	// entry, if set.
	Clobber *bool `json:"clobber,omitempty"`
	// Permissions holds the lower 9 mode bits to apply, if set.
	Permissions *Mode `json:"permissions,omitempty"`
	// UID is the numeric owner to apply, if set.
	UID *uint32 `json:"uid,omitempty"`
	// GID is the numeric group to apply, if set.
	GID *uint32 `json:"gid,omitempty"`
	// Deactivate controls whether this entry is removed on deactivation.
	// Defaults to true.
	Deactivate *bool `json:"deactivate,omitempty"`
	// FollowSymlinks controls whether Source is canonicalized before use
	// (true, the default) or taken as an absolute path without following.
	FollowSymlinks *bool `json:"follow_symlinks,omitempty"`
	// IgnoreModification, for Copy entries, skips the size/content-hash
	// steps of the equivalence check; permission and ownership checks still
	// run.
	IgnoreModification *bool `json:"ignore_modification,omitempty"`
}

// EffectiveClobber resolves this entry's clobber policy against the
// manifest-wide default: entry.Clobber ?? defaultClobber ?? false.
func (e *Entry) EffectiveClobber(defaultClobber *bool) bool {
	if e.Clobber != nil {
		return *e.Clobber
	}
	if defaultClobber != nil {
		return *defaultClobber
	}
	return false
}

// ShouldDeactivate reports whether this entry participates in deactivation.
// Defaults to true.
func (e *Entry) ShouldDeactivate() bool {
	return e.Deactivate == nil || *e.Deactivate
}

// ShouldFollowSymlinks reports whether Source should be canonicalized before
// use. Defaults to true.
func (e *Entry) ShouldFollowSymlinks() bool {
	return e.FollowSymlinks == nil || *e.FollowSymlinks
}

// ShouldIgnoreModification reports whether the Copy equivalence check
// should skip its size/content-hash steps.
func (e *Entry) ShouldIgnoreModification() bool {
	return e.IgnoreModification != nil && *e.IgnoreModification
}

// Equal reports whether e and other are structurally identical over every
// serialized field - the equality used by the diff planner to decide
// whether an entry is unchanged between two manifests.
func (e *Entry) Equal(other *Entry) bool {
	if e == nil || other == nil {
		return e == other
	}
	return reflect.DeepEqual(e, other)
}

// ancestorCount returns the depth of Target, used as the tiebreak ordering
// key within a kind: shallower targets sort first.
func (e *Entry) ancestorCount() int {
	clean := filepath.Clean(e.Target)
	return strings.Count(clean, string(filepath.Separator))
}

// SortEntries orders entries by (kind rank, ancestor count), stable so that
// logs are deterministic across repeated runs with equal inputs.
func SortEntries(entries []*Entry, ascending bool) []*Entry {
	sorted := make([]*Entry, len(entries))
	copy(sorted, entries)

	less := func(i, j int) bool {
		ri, rj := sorted[i].Kind.rank(), sorted[j].Kind.rank()
		if ri != rj {
			return ri < rj
		}
		return sorted[i].ancestorCount() < sorted[j].ancestorCount()
	}
	if !ascending {
		// Reverse comparisons so later calls to sort.SliceStable descend
		// instead of ascend, rather than sorting then reversing the slice
		// (which would also reverse within-rank ties unnecessarily).
		forward := less
		less = func(i, j int) bool { return forward(j, i) }
	}

	sort.SliceStable(sorted, less)
	return sorted
}
