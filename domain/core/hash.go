package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Hash represents a cryptographic hash
type Hash string

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// DataHash fingerprints a measurement matrix so reports can be traced back to their input.
type DataHash Hash

func (h DataHash) String() string { return Hash(h).String() }

// ComputeDataHash hashes treatment names (in column order) followed by the
// row-major scores. Scores are hashed by their IEEE-754 bits, so -0 and +0
// hash differently.
func ComputeDataHash(treatments []string, rowMajor []float64) DataHash {
	h := sha256.New()
	var buf [8]byte
	for _, name := range treatments {
		binary.BigEndian.PutUint64(buf[:], uint64(len(name)))
		h.Write(buf[:])
		h.Write([]byte(name))
	}
	for _, v := range rowMajor {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return DataHash(hex.EncodeToString(h.Sum(nil)))
}
