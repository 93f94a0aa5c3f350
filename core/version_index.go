package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/smarty/assetmirror/contracts"
)

// catalogEntry is the wire shape of one element of the "all versions"
// response: GET {catalog}/version/assets.
type catalogEntry struct {
	Version   uint64 `json:"version"`
	IndexName string `json:"indexName"`
}

// catalogLatestEnvelope is the wire shape of GET {catalog}/version/latest.
// The reference client nests the asset version under a "res" key; some
// deployments of the same catalog nest it under "asset" instead. Both are
// accepted.
type catalogLatestEnvelope struct {
	Res   *catalogEntry `json:"res"`
	Asset *catalogEntry `json:"asset"`
}

func (this catalogLatestEnvelope) entry() (catalogEntry, error) {
	if this.Res != nil {
		return *this.Res, nil
	}
	if this.Asset != nil {
		return *this.Asset, nil
	}
	return catalogEntry{}, fmt.Errorf("latest version envelope carried neither %q nor %q", "res", "asset")
}

// CatalogVersionIndex implements contracts.VersionIndex against a JSON
// version-catalog service distinct from the CDN that serves manifests and
// blobs.
type CatalogVersionIndex struct {
	client   contracts.HTTPClient
	base     string
	resolver contracts.UrlResolver
	variant  contracts.Variant
}

func NewCatalogVersionIndex(client contracts.HTTPClient, catalogBase string, resolver contracts.UrlResolver, variant contracts.Variant) *CatalogVersionIndex {
	return &CatalogVersionIndex{client: client, base: catalogBase, resolver: resolver, variant: variant}
}

func (this *CatalogVersionIndex) ListAll(ctx context.Context) ([]contracts.ManifestDescriptor, error) {
	url := this.base + "/version/assets"
	_, body, err := this.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	var entries []catalogEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decoding version catalog response from %s: %w", url, err)
	}

	descriptors := make([]contracts.ManifestDescriptor, 0, len(entries))
	for _, entry := range entries {
		descriptors = append(descriptors, this.describe(entry))
	}
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Version > descriptors[j].Version
	})
	return descriptors, nil
}

func (this *CatalogVersionIndex) Latest(ctx context.Context) (contracts.ManifestDescriptor, error) {
	url := this.base + "/version/latest"
	_, body, err := this.client.Get(ctx, url)
	if err != nil {
		return contracts.ManifestDescriptor{}, err
	}

	var envelope catalogLatestEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return contracts.ManifestDescriptor{}, fmt.Errorf("decoding latest version response from %s: %w", url, err)
	}
	entry, err := envelope.entry()
	if err != nil {
		return contracts.ManifestDescriptor{}, fmt.Errorf("decoding latest version response from %s: %w", url, err)
	}

	return this.describe(entry), nil
}

func (this *CatalogVersionIndex) describe(entry catalogEntry) contracts.ManifestDescriptor {
	return contracts.ManifestDescriptor{
		Version:   entry.Version,
		IndexName: entry.IndexName,
		DataURL:   this.resolver.ManifestURL(entry.Version, this.variant, entry.IndexName),
	}
}
