package common

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

type Hasher interface {
	Hash(bytes []byte) uint64
	HashStr(str string) uint64
}

type defaultHasher struct {
}

func (h *defaultHasher) HashStr(str string) uint64 {
	return xxh3.HashString(str)
}

func (h *defaultHasher) Hash(bytes []byte) uint64 {
	return xxh3.Hash(bytes)
}

func NewDefaultHasher() Hasher {
	return &defaultHasher{}
}

// Fingerprint renders the hash of data as a fixed-width hex string,
// suitable for tagging log lines with the identity of an input document.
func Fingerprint(h Hasher, data []byte) string {
	return fmt.Sprintf("%016x", h.Hash(data))
}
