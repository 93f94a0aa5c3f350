package core

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/smarty/assetmirror/contracts"
	"github.com/vmihailenco/msgpack/v5"
)

// DecodeManifest parses manifest bytes into ordered AssetRecords. The wire
// format is a MessagePack array whose element 0 is a map of
// name -> [hash-hex, remoteFile, size]; any further array elements are
// ignored. The map is walked key-by-key in encounter order (rather than
// unmarshalled into a plain Go map, whose iteration order is random) so
// repeated decodes of identical bytes are reproducible, including order.
func DecodeManifest(descriptor contracts.ManifestDescriptor, variant contracts.Variant, raw []byte) (contracts.Manifest, error) {
	decoder := msgpack.NewDecoder(bytes.NewReader(raw))

	arrayLen, err := decoder.DecodeArrayLen()
	if err != nil {
		return contracts.Manifest{}, decodeErr("reading top-level array", err)
	}
	if arrayLen < 1 {
		return contracts.Manifest{}, decodeErr("top-level array is empty", nil)
	}

	mapLen, err := decoder.DecodeMapLen()
	if err != nil {
		return contracts.Manifest{}, decodeErr("reading entry map", err)
	}
	if mapLen < 0 {
		return contracts.Manifest{}, decodeErr("entry map has negative length", nil)
	}

	entries := make([]contracts.AssetRecord, 0, mapLen)
	for i := 0; i < mapLen; i++ {
		name, err := decoder.DecodeString()
		if err != nil {
			return contracts.Manifest{}, decodeErr("reading entry name", err)
		}
		if name == "" {
			return contracts.Manifest{}, decodeErr("entry name is empty", nil)
		}

		tupleLen, err := decoder.DecodeArrayLen()
		if err != nil {
			return contracts.Manifest{}, decodeErr(fmt.Sprintf("reading tuple for %q", name), err)
		}
		if tupleLen != 3 {
			return contracts.Manifest{}, decodeErr(fmt.Sprintf("entry %q has %d elements, want 3", name, tupleLen), nil)
		}

		hashHex, err := decoder.DecodeString()
		if err != nil {
			return contracts.Manifest{}, decodeErr(fmt.Sprintf("reading hash for %q", name), err)
		}
		remoteFile, err := decoder.DecodeString()
		if err != nil {
			return contracts.Manifest{}, decodeErr(fmt.Sprintf("reading remote filename for %q", name), err)
		}
		rawSize, err := decoder.DecodeInterfaceLoose()
		if err != nil {
			return contracts.Manifest{}, decodeErr(fmt.Sprintf("reading size for %q", name), err)
		}
		var size uint64
		switch value := rawSize.(type) {
		case uint64:
			size = value
		case int64:
			if value < 0 {
				return contracts.Manifest{}, decodeErr(fmt.Sprintf("entry %q has negative size %d", name, value), nil)
			}
			size = uint64(value)
		default:
			return contracts.Manifest{}, decodeErr(fmt.Sprintf("entry %q has non-integer size", name), nil)
		}

		hash, err := decodeHash(hashHex)
		if err != nil {
			return contracts.Manifest{}, decodeErr(fmt.Sprintf("decoding hash for %q", name), err)
		}

		entries = append(entries, contracts.AssetRecord{
			Name:       name,
			Hash:       hash,
			RemoteFile: remoteFile,
			Size:       size,
		})
	}

	// Remaining array elements, if any, are intentionally ignored per §4.4.
	for i := 1; i < arrayLen; i++ {
		if err := decoder.Skip(); err != nil {
			return contracts.Manifest{}, decodeErr("skipping trailing array element", err)
		}
	}

	return contracts.NewManifest(descriptor, variant, entries), nil
}

// EncodeManifest is the inverse of DecodeManifest, used only by the local
// manifest cache (§4.9) and by test fixtures. It round-trips byte-for-byte
// with DecodeManifest given the same entry order.
func EncodeManifest(manifest contracts.Manifest) ([]byte, error) {
	var buf bytes.Buffer
	encoder := msgpack.NewEncoder(&buf)

	if err := encoder.EncodeArrayLen(1); err != nil {
		return nil, err
	}
	entries := manifest.Entries()
	if err := encoder.EncodeMapLen(len(entries)); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if err := encoder.EncodeString(entry.Name); err != nil {
			return nil, err
		}
		if err := encoder.EncodeArrayLen(3); err != nil {
			return nil, err
		}
		if err := encoder.EncodeString(hex.EncodeToString(entry.Hash[:])); err != nil {
			return nil, err
		}
		if err := encoder.EncodeString(entry.RemoteFile); err != nil {
			return nil, err
		}
		if err := encoder.EncodeUint64(entry.Size); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func decodeHash(hashHex string) ([16]byte, error) {
	var hash [16]byte
	raw, err := hex.DecodeString(hashHex)
	if err != nil {
		return hash, err
	}
	if len(raw) != len(hash) {
		return hash, fmt.Errorf("hash %q decodes to %d bytes, want %d", hashHex, len(raw), len(hash))
	}
	copy(hash[:], raw)
	return hash, nil
}

func decodeErr(reason string, cause error) *contracts.ManifestDecodeError {
	return &contracts.ManifestDecodeError{Reason: reason, Cause: cause}
}
