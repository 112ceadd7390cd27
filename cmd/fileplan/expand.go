package main

import (
	"fmt"

	"github.com/cdzombak/fileplan/pkg/manifest"
	"github.com/cdzombak/fileplan/pkg/pathexpand"
)

// expandManifest resolves every entry's Target (and Source, where present)
// through pathexpand.Expand, finishing the load pipeline before entries are
// handed to the reconciler. In pure mode, entries whose Target doesn't
// expand (i.e. isn't already absolute) are dropped with a warning rather
// than failing the whole run; in impure mode, an expansion failure (an
// undefined environment variable) aborts the run with exit code 4.
func expandManifest(m *manifest.Manifest, impure bool) error {
	kept := m.Files[:0]
	for _, entry := range m.Files {
		target, ok, err := pathexpand.Expand(entry.Target, impure)
		if err != nil {
			return err
		}
		if !ok {
			logger.Warnf("dropping entry with non-absolute target %q (pure mode)", entry.Target)
			continue
		}
		entry.Target = target

		if entry.Source != nil {
			source, ok, err := pathexpand.Expand(*entry.Source, impure)
			if err != nil {
				return err
			}
			if !ok {
				logger.Warnf("dropping entry with non-absolute source %q (pure mode)", *entry.Source)
				continue
			}
			entry.Source = &source
		}

		kept = append(kept, entry)
	}
	m.Files = kept
	return nil
}

// loadAndExpand loads the manifest at path and expands its entries' paths,
// wrapping any pathexpand failure so the caller can still distinguish it
// from a load/parse failure via errors.As.
func loadAndExpand(path string, impure bool) (*manifest.Manifest, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	if err := expandManifest(m, impure); err != nil {
		return nil, fmt.Errorf("unable to expand manifest paths: %w", err)
	}
	return m, nil
}
