package core

import (
	"context"

	"github.com/smarty/assetmirror/contracts"
)

// ManifestFetcher fetches one manifest's bytes, MD5-verifies them against
// the provider's hash header, decodes them, and optionally caches the
// verified bytes to disk for later offline diffing.
type ManifestFetcher struct {
	Client  contracts.HTTPClient
	Writer  *AtomicWriter
	Options contracts.Options
}

// Fetch returns the decoded manifest and its raw verified bytes.
func (this *ManifestFetcher) Fetch(ctx context.Context, descriptor contracts.ManifestDescriptor) (contracts.Manifest, []byte, error) {
	response, body, err := this.Client.Get(ctx, descriptor.DataURL)
	if err != nil {
		return contracts.Manifest{}, nil, err
	}
	if err := Verify(descriptor.DataURL, descriptor.IndexName, response, body); err != nil {
		return contracts.Manifest{}, nil, err
	}

	manifest, err := DecodeManifest(descriptor, this.Options.Variant, body)
	if err != nil {
		return contracts.Manifest{}, nil, err
	}

	if this.Options.KeepManifest {
		if err := this.Writer.WriteManifestCache(this.Options.OutputDir, descriptor.Version, body); err != nil {
			return contracts.Manifest{}, nil, err
		}
	}

	return manifest, body, nil
}
