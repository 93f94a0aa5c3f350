package contracts

// Options is the closed set of fields the core pipeline recognizes. cmd/
// builds one of these from flags, environment overrides, and defaults;
// nothing below core/ ever looks up a string key or an environment
// variable directly.
type Options struct {
	// OutputDir is the root of the mirrored tree; each version gets its
	// own subdirectory beneath it.
	OutputDir string

	// Variant selects which platform's manifest to fetch.
	Variant Variant

	// Parallel bounds the number of concurrent asset jobs per version.
	Parallel int

	// MaxRetry bounds retry attempts for a single HTTP operation.
	MaxRetry int

	// DryRun fetches and verifies but never writes to disk.
	DryRun bool

	// Checksum, instead of fetching, asserts that every on-disk file
	// already matches its manifest entry.
	Checksum bool

	// Latest short-circuits selection to the single latest version.
	Latest bool

	// RequestedVersion, if non-nil, selects exactly one version instead
	// of prompting interactively or using Latest.
	RequestedVersion *uint64

	// KeepManifest writes the verified manifest bytes alongside the
	// downloaded assets for later offline diffing.
	KeepManifest bool
}
