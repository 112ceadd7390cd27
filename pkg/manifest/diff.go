package manifest

import (
	"github.com/cdzombak/fileplan/pkg/logging"
)

// updatedPair is an (old, new) entry pair for the same target that the diff
// partition decided should transition via atomic swap or backup, rather
// than a plain deactivate+activate.
type updatedPair struct {
	old, new *Entry
}

// partition splits old and new into removed / updated / identical / added
// sets, per spec §4.5's diff partition algorithm.
func partition(old, new *Manifest) (removed []*Entry, updated []updatedPair, identical []*Entry, added []*Entry) {
	// usedNew tracks indices of new.Files already claimed by an identical or
	// updated pairing, so they aren't later counted as added.
	usedNew := make(map[int]bool, len(new.Files))

	for _, o := range old.Files {
		matchedIdentical := false
		matchedUpdate := -1

		for j, n := range new.Files {
			if usedNew[j] {
				continue
			}
			if o.Equal(n) {
				matchedIdentical = true
				usedNew[j] = true
				break
			}
		}
		if matchedIdentical {
			identical = append(identical, o)
			continue
		}

		for j, n := range new.Files {
			if usedNew[j] {
				continue
			}
			if n.Target == o.Target && (n.Kind == KindSymlink || n.Kind == KindCopy) {
				matchedUpdate = j
				break
			}
		}
		if matchedUpdate >= 0 {
			usedNew[matchedUpdate] = true
			updated = append(updated, updatedPair{old: o, new: new.Files[matchedUpdate]})
			continue
		}

		removed = append(removed, o)
	}

	for j, n := range new.Files {
		if !usedNew[j] {
			added = append(added, n)
		}
	}

	return
}

// Diff transitions the filesystem from old's state to new's state: entries
// present only in old are deactivated, entries present only in new are
// activated, matching Symlink/Copy entries at the same target are swapped
// in place where possible, and entries unchanged between the two manifests
// are left alone (beyond an idempotent re-activation, which is safe since
// the equivalence check short-circuits it).
func Diff(old, new *Manifest, reconciler EntryReconciler, backupPrefix string, logger *logging.Logger) {
	removed, updated, identical, added := partition(old, new)

	// 1. Deactivate removed entries.
	for _, entry := range sortedByKindDescending(removed) {
		if err := reconciler.Deactivate(entry); err != nil {
			logger.Warnf("unable to deactivate %s: %v", entry.Target, err)
		}
	}

	// 2. Resolve updated pairs: atomic swap if possible, else back up a
	// tampered target and fall back to normal activation.
	var toActivate []*Entry
	for _, pair := range updated {
		clobber := pair.old.EffectiveClobber(old.ClobberByDefault)
		needsActivate, err := reconciler.ResolveUpdate(pair.old, pair.new, clobber, backupPrefix)
		if err != nil {
			logger.Warnf("unable to resolve update for %s: %v", pair.new.Target, err)
			continue
		}
		if needsActivate {
			toActivate = append(toActivate, pair.new)
		}
	}

	// 3. Append identical entries to the activation list (idempotence check
	// will no-op them if they're already correct).
	toActivate = append(toActivate, identical...)

	// 4. Activate the remaining new set.
	toActivate = append(toActivate, added...)
	defaultClobber := new.ClobberByDefault
	for _, entry := range SortEntries(toActivate, true) {
		if err := reconciler.Activate(entry, entry.EffectiveClobber(defaultClobber), backupPrefix); err != nil {
			logger.Warnf("unable to activate %s: %v", entry.Target, err)
		}
	}
}

// sortedByKindDescending orders entries for deactivation: reverse kind/depth
// order, children before parents.
func sortedByKindDescending(entries []*Entry) []*Entry {
	return SortEntries(entries, false)
}
