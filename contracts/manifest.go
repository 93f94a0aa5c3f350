package contracts

// AssetRecord is the triple the manifest publishes for one logical asset:
// the content hash the provider will report back via its hash header, the
// filename the blob is actually stored under on the CDN, and its expected
// size in bytes.
type AssetRecord struct {
	Name       string
	Hash       [16]byte
	RemoteFile string
	Size       uint64
}

// Manifest is a decoded manifest: the descriptor that was used to fetch it
// plus its entries. Entries preserve the order they were encountered in the
// wire format; Names returns that same order.
type Manifest struct {
	Descriptor ManifestDescriptor
	Variant    Variant
	names      []string
	byName     map[string]AssetRecord
}

// NewManifest builds a Manifest from an ordered slice of entries. Passing
// entries with a duplicate Name is a programmer error; the later entry
// wins and the earlier name is not removed from iteration order.
func NewManifest(descriptor ManifestDescriptor, variant Variant, entries []AssetRecord) Manifest {
	byName := make(map[string]AssetRecord, len(entries))
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, found := byName[entry.Name]; !found {
			names = append(names, entry.Name)
		}
		byName[entry.Name] = entry
	}
	return Manifest{Descriptor: descriptor, Variant: variant, names: names, byName: byName}
}

// Len returns the number of entries in the manifest.
func (this Manifest) Len() int { return len(this.names) }

// Names returns the entry names in encounter order.
func (this Manifest) Names() []string { return this.names }

// Lookup returns the record for name and whether it was present.
func (this Manifest) Lookup(name string) (AssetRecord, bool) {
	record, found := this.byName[name]
	return record, found
}

// Entries returns the manifest's records in encounter order.
func (this Manifest) Entries() []AssetRecord {
	entries := make([]AssetRecord, 0, len(this.names))
	for _, name := range this.names {
		entries = append(entries, this.byName[name])
	}
	return entries
}

// AssetSize returns the sum of every entry's advertised size.
func (this Manifest) AssetSize() uint64 {
	var total uint64
	for _, record := range this.byName {
		total += record.Size
	}
	return total
}

// ManifestDiff is the result of comparing two manifests of the same
// variant: entries new to the newer manifest, entries whose hash or size
// changed, and entries dropped from the newer manifest.
type ManifestDiff struct {
	Added   map[string]AssetRecord
	Updated map[string]AssetRecord
	Removed map[string]AssetRecord
}
