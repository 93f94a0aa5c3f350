package contracts

import "context"

// VersionIndex enumerates manifests published by the version-catalog
// service and turns catalog entries into fully resolved ManifestDescriptors.
type VersionIndex interface {
	// ListAll returns every known ManifestDescriptor, most recent first.
	ListAll(ctx context.Context) ([]ManifestDescriptor, error)

	// Latest returns only the most recently published ManifestDescriptor,
	// without fetching the full list.
	Latest(ctx context.Context) (ManifestDescriptor, error)
}

// Chooser narrows a list of candidate manifests down to the subset the
// operator actually wants processed. The interactive terminal
// implementation lives outside core/ so it can be swapped for a
// non-interactive fake in tests.
type Chooser interface {
	Choose(ctx context.Context, candidates []ManifestSummary) ([]ManifestDescriptor, error)
}

// ManifestSummary is what a Chooser needs to render one candidate line:
// "{version} ({count} file, {human-bytes})".
type ManifestSummary struct {
	Descriptor ManifestDescriptor
	FileCount  int
	TotalBytes uint64
}
