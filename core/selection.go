package core

import (
	"context"
	"fmt"

	"github.com/smarty/assetmirror/contracts"
)

// Selector narrows the full set of published manifests down to the
// versions a particular invocation should process, per the modes of
// §4.5. It is the only component that talks to both the VersionIndex and
// a Chooser.
type Selector struct {
	Index    contracts.VersionIndex
	Fetcher  *ManifestFetcher
	FS       contracts.FileSystem
	Chooser  contracts.Chooser
	Options  contracts.Options
}

func NewSelector(index contracts.VersionIndex, fetcher *ManifestFetcher, fs contracts.FileSystem, chooser contracts.Chooser, options contracts.Options) *Selector {
	return &Selector{Index: index, Fetcher: fetcher, FS: fs, Chooser: chooser, Options: options}
}

// Select returns the ManifestDescriptors this invocation should process.
func (this *Selector) Select(ctx context.Context) ([]contracts.ManifestDescriptor, error) {
	switch {
	case this.Options.Latest:
		descriptor, err := this.Index.Latest(ctx)
		if err != nil {
			return nil, err
		}
		return []contracts.ManifestDescriptor{descriptor}, nil

	case this.Options.RequestedVersion != nil:
		return this.selectRequestedVersion(ctx, *this.Options.RequestedVersion)

	case this.Options.Checksum:
		return this.selectAlreadyDownloaded(ctx)

	default:
		return this.selectInteractively(ctx)
	}
}

func (this *Selector) selectRequestedVersion(ctx context.Context, version uint64) ([]contracts.ManifestDescriptor, error) {
	all, err := this.Index.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, descriptor := range all {
		if descriptor.Version == version {
			return []contracts.ManifestDescriptor{descriptor}, nil
		}
	}
	return nil, fmt.Errorf("version %d not found in version catalog", version)
}

// selectAlreadyDownloaded implements --checksum's selection rule: only
// versions whose directory already exists under the output root are
// eligible, since checksum mode asserts against what is already on disk.
func (this *Selector) selectAlreadyDownloaded(ctx context.Context) ([]contracts.ManifestDescriptor, error) {
	all, err := this.Index.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var selected []contracts.ManifestDescriptor
	for _, descriptor := range all {
		dir := VersionDir(this.Options.OutputDir, descriptor.Version)
		if _, err := this.FS.Stat(dir); err == nil {
			selected = append(selected, descriptor)
		} else if !contracts.IsNotExist(err) {
			return nil, err
		}
	}
	return selected, nil
}

// selectInteractively fetches and decodes every candidate's manifest (so
// the Chooser can render "{version} ({count} file, {human-bytes})") and
// hands the summaries to the Chooser. The repeat-until-confirmed behavior
// of §4.5 is owned entirely by the Chooser implementation; Select invokes
// it exactly once and returns whatever it settles on.
func (this *Selector) selectInteractively(ctx context.Context) ([]contracts.ManifestDescriptor, error) {
	all, err := this.Index.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]contracts.ManifestSummary, 0, len(all))
	for _, descriptor := range all {
		manifest, _, err := this.Fetcher.Fetch(ctx, descriptor)
		if err != nil {
			return nil, fmt.Errorf("fetching manifest for version %d: %w", descriptor.Version, err)
		}
		summaries = append(summaries, contracts.ManifestSummary{
			Descriptor: descriptor,
			FileCount:  manifest.Len(),
			TotalBytes: manifest.AssetSize(),
		})
	}

	return this.Chooser.Choose(ctx, summaries)
}
