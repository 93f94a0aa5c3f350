package contracts

import "fmt"

// VersionEpoch is the version at and after which the CDN switches its URL
// sub-path from "2017v1" to "2018v1". The switch is purely a server-side
// routing detail; nothing about the manifest or asset format changes at
// the boundary.
const VersionEpoch = 70000

// Variant is the OS/platform sub-path segment of the CDN URL. Distinct
// manifests are published per variant even though the asset names often
// overlap between them.
type Variant string

const (
	VariantAndroid Variant = "Android"
	VariantIOS     Variant = "iOS"
)

func (this Variant) String() string { return string(this) }

// ParseVariant accepts the lowercase CLI spelling ("android", "ios") and
// returns the canonical CDN path segment.
func ParseVariant(value string) (Variant, error) {
	switch value {
	case "android", "Android":
		return VariantAndroid, nil
	case "ios", "iOS":
		return VariantIOS, nil
	default:
		return "", fmt.Errorf("unknown variant %q", value)
	}
}

// ManifestDescriptor identifies one published manifest: the version that
// produced it, the opaque filename the catalog handed back, and the fully
// resolved URL at which its bytes can be fetched.
type ManifestDescriptor struct {
	Version   uint64
	IndexName string
	DataURL   string
}

// EpochSegment returns the CDN sub-path segment that routes requests for
// this version.
func EpochSegment(version uint64) string {
	if version < VersionEpoch {
		return "2017v1"
	}
	return "2018v1"
}
