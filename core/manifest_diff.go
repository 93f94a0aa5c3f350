package core

import "github.com/smarty/assetmirror/contracts"

// Diff computes the pure, offline comparison of two decoded manifests of
// the same variant: entries new to newer, entries whose hash or size
// changed, and entries present in older but gone from newer. It never
// touches the network or disk.
//
// A changed RemoteFile alone is not reported: the provider sometimes
// renames the backing blob across releases without the content changing,
// and that rename alone is not interesting to an operator comparing two
// manifests.
func Diff(older, newer contracts.Manifest) contracts.ManifestDiff {
	diff := contracts.ManifestDiff{
		Added:   make(map[string]contracts.AssetRecord),
		Updated: make(map[string]contracts.AssetRecord),
		Removed: make(map[string]contracts.AssetRecord),
	}

	for _, name := range newer.Names() {
		newEntry, _ := newer.Lookup(name)
		oldEntry, found := older.Lookup(name)
		if !found {
			diff.Added[name] = newEntry
			continue
		}
		if oldEntry.Hash != newEntry.Hash || oldEntry.Size != newEntry.Size {
			diff.Updated[name] = newEntry
		}
	}

	for _, name := range older.Names() {
		if _, found := newer.Lookup(name); !found {
			oldEntry, _ := older.Lookup(name)
			diff.Removed[name] = oldEntry
		}
	}

	return diff
}
