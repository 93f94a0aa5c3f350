package contracts

import "fmt"

// UrlResolver is the sole polymorphism point over the CDN's URL layout.
// It owns the host base, the epoch split, and the variant sub-path, so
// all three are testable without a network call.
type UrlResolver interface {
	ManifestURL(version uint64, variant Variant, indexName string) string
	BlobURL(version uint64, variant Variant, remoteFile string) string
}

// TemplateUrlResolver implements UrlResolver with the template
// "{base}/{version}/production/{epoch-segment}/{variant}/{filename}"
// against a fixed base URL.
type TemplateUrlResolver struct {
	Base string
}

func (this TemplateUrlResolver) ManifestURL(version uint64, variant Variant, indexName string) string {
	return this.assetURL(version, variant, indexName)
}

func (this TemplateUrlResolver) BlobURL(version uint64, variant Variant, remoteFile string) string {
	return this.assetURL(version, variant, remoteFile)
}

func (this TemplateUrlResolver) assetURL(version uint64, variant Variant, filename string) string {
	return fmt.Sprintf("%s/%d/production/%s/%s/%s", this.Base, version, EpochSegment(version), variant, filename)
}
