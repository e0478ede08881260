package main

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/hkdf"
)

// seedLen is the number of seed bytes required on the command line.
const seedLen = 32

// decodeSeed parses the hex seed given with --seed.
func decodeSeed(s string) ([]byte, error) {
	res, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(res) < seedLen {
		return nil, errShortSeed
	}
	return res, nil
}

// labelReader returns a deterministic byte stream for one party of one
// vector. Distinct labels give independent streams from the same seed.
func labelReader(seed []byte, label string) io.Reader {
	return hkdf.New(sha256.New, seed, nil, []byte(label))
}

func hexString(b []byte) string {
	return hex.EncodeToString(b)
}
