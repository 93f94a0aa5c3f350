package core

import (
	"bytes"
	"crypto/md5"
	"encoding/base64"
	"io"
	"strings"

	"github.com/smarty/assetmirror/contracts"
)

// ExpectedMD5 parses the provider's x-goog-hash header (a comma-separated
// list of "algo=base64" entries) and decodes the md5 entry to its raw 16
// bytes. It fails with MissingHashHeader when no md5 entry is present.
func ExpectedMD5(url string, response contracts.Response) ([16]byte, error) {
	var digest [16]byte

	for _, entry := range strings.Split(response.GoogHash, ",") {
		entry = strings.TrimSpace(entry)
		algo, value, found := strings.Cut(entry, "=")
		if !found || algo != "md5" {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(value)
		if err != nil || len(raw) != len(digest) {
			continue
		}
		copy(digest[:], raw)
		return digest, nil
	}

	return digest, &contracts.MissingHashHeader{URL: url}
}

// BodyMD5 returns the MD5 digest of the full byte buffer. It reads the
// buffer through a HashReader rather than calling md5.Sum directly; this is
// the package's only use of HashReader.
func BodyMD5(body []byte) [16]byte {
	reader := NewHashReader(bytes.NewReader(body), md5.New())
	_, _ = io.Copy(io.Discard, reader)
	var digest [16]byte
	copy(digest[:], reader.Hash.Sum(nil))
	return digest
}

// Verify returns nil iff the body's MD5 digest matches the digest the
// provider advertised for url, else fails with ChecksumMismatch.
func Verify(url, name string, response contracts.Response, body []byte) error {
	expected, err := ExpectedMD5(url, response)
	if err != nil {
		return err
	}
	actual := BodyMD5(body)
	if expected != actual {
		return &contracts.ChecksumMismatch{URL: url, Name: name, Expected: expected, Actual: actual}
	}
	return nil
}
