package core

import (
	"hash"
	"io"
)

// HashReader wraps a reader and feeds every byte read through a hash, so a
// single pass over the data can both forward it (e.g. into a verification
// buffer) and compute its digest.
type HashReader struct {
	io.Reader
	hash.Hash
}

func NewHashReader(source io.Reader, target hash.Hash) *HashReader {
	return &HashReader{Reader: source, Hash: target}
}

func (this *HashReader) Read(buffer []byte) (int, error) {
	count, err := this.Reader.Read(buffer)
	_, _ = this.Hash.Write(buffer[0:count])
	return count, err
}
