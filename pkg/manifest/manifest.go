package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/cdzombak/fileplan/pkg/encoding"
	"github.com/cdzombak/fileplan/pkg/logging"
)

// CurrentSchemaVersion is the schema version this binary understands. A
// manifest whose Version exceeds this is refused rather than guessed at.
const CurrentSchemaVersion = 1

// Manifest is an ordered collection of desired filesystem entries.
type Manifest struct {
	// Files is the ordered set of entries this manifest describes. Ordering
	// in the wire format is not significant; entries are re-sorted before
	// activation/deactivation.
	Files []*Entry `json:"files"`
	// ClobberByDefault is the manifest-wide clobber policy used when an
	// entry doesn't specify its own.
	ClobberByDefault *bool `json:"clobber_by_default,omitempty"`
	// Version is this manifest's schema version.
	Version int `json:"version"`
}

// LoadIOError wraps a failure to read the manifest file itself (distinct
// from a parse failure), so callers can select an exit code without
// string-matching errors.
type LoadIOError struct {
	Err error
}

func (e *LoadIOError) Error() string { return fmt.Sprintf("unable to read manifest: %v", e.Err) }
func (e *LoadIOError) Unwrap() error { return e.Err }

// ParseError wraps a manifest JSON decoding failure.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("unable to parse manifest: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// VersionError indicates that a manifest's schema version is newer than
// this binary understands.
type VersionError struct {
	Found, Supported int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("manifest version %d is newer than supported version %d", e.Found, e.Supported)
}

// Load reads and parses the manifest at path, rejecting it outright if its
// schema version is newer than CurrentSchemaVersion.
func Load(path string) (*Manifest, error) {
	var m Manifest
	var parseErr error
	err := encoding.LoadAndUnmarshal(path, func(data []byte) error {
		if err := json.Unmarshal(data, &m); err != nil {
			parseErr = err
			return err
		}
		return nil
	})
	if err != nil {
		if parseErr != nil {
			return nil, &ParseError{Err: parseErr}
		}
		return nil, &LoadIOError{Err: err}
	}

	if m.Version > CurrentSchemaVersion {
		return nil, &VersionError{Found: m.Version, Supported: CurrentSchemaVersion}
	}

	return &m, nil
}

// Save writes the manifest to path atomically.
func (m *Manifest) Save(path string) error {
	return encoding.MarshalAndSave(path, func() ([]byte, error) {
		return json.Marshal(m)
	})
}

// EntryReconciler performs the per-entry filesystem operations that drive a
// manifest's entries toward (or away from) their desired state. It's
// satisfied by *pkg/reconcile.Reconciler; defined here, rather than
// imported from pkg/reconcile, so that this package doesn't need to import
// its own caller's caller - callers (cmd/fileplan) wire a concrete
// reconciler into Activate/Deactivate/Diff.
type EntryReconciler interface {
	// Activate brings target into conformance with entry, using
	// effectiveClobber (entry's clobber already resolved against the
	// manifest default). Failures are returned to the caller but are not
	// fatal to the overall manifest walk.
	Activate(entry *Entry, effectiveClobber bool, backupPrefix string) error
	// Deactivate reverses a prior activation of entry, refusing to touch
	// target if it no longer matches what activation would have produced.
	Deactivate(entry *Entry) error
	// ResolveUpdate handles one (old, new) pair from a diff's updated set,
	// per spec §4.5 step 2: if old's effective clobber is false and old's
	// target has been tampered with (no longer equivalent to old), it backs
	// the target up and reports that new still needs ordinary activation.
	// Otherwise it attempts the atomic-swap fast path with new's content;
	// needsActivate is true if the fast path declined (directory mismatch,
	// etc.) and new must be queued for ordinary activation instead.
	ResolveUpdate(old, newEntry *Entry, oldEffectiveClobber bool, backupPrefix string) (needsActivate bool, err error)
}

// Activate sorts entries by (kind, ancestor count) and activates each in
// turn. Per-entry failures are logged and do not abort the walk.
func (m *Manifest) Activate(reconciler EntryReconciler, backupPrefix string, logger *logging.Logger) {
	defaultClobber := m.ClobberByDefault
	for _, entry := range SortEntries(m.Files, true) {
		if err := reconciler.Activate(entry, entry.EffectiveClobber(defaultClobber), backupPrefix); err != nil {
			logger.Warnf("unable to activate %s: %v", entry.Target, err)
		}
	}
}

// Deactivate sorts entries by (kind, ancestor count) and deactivates them in
// reverse order, so that children are removed before their parent
// directories. Per-entry failures are logged and do not abort the walk.
func (m *Manifest) Deactivate(reconciler EntryReconciler, logger *logging.Logger) {
	for _, entry := range SortEntries(m.Files, false) {
		if err := reconciler.Deactivate(entry); err != nil {
			logger.Warnf("unable to deactivate %s: %v", entry.Target, err)
		}
	}
}
