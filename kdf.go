package ffdh

import (
	"crypto/sha256"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
)

// maxDerivedBlocks is the HKDF-Expand output limit in hash blocks.
const maxDerivedBlocks = 255

// DeriveKey expands a shared secret into length bytes of key material with
// HKDF-SHA256. Raw DH secrets are not uniformly distributed and should not
// be used as keys directly.
func DeriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	return DeriveKeyWithHash(sha256.New, secret, salt, info, length)
}

// DeriveKeyWithHash is DeriveKey with an explicit hash function.
func DeriveKeyWithHash(h func() hash.Hash, secret, salt, info []byte, length int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, wrapf(ErrNoKey, "empty shared secret")
	}
	if length <= 0 || length > maxDerivedBlocks*h().Size() {
		return nil, wrapf(ErrRange, "derived key length %d", length)
	}
	out := make([]byte, length)
	if _, err := io.ReadFull(hkdf.New(h, secret, salt, info), out); err != nil {
		secureZero(out)
		return nil, wrapf(ErrRange, "hkdf: %v", err)
	}
	return out, nil
}

// AgreeAndDerive computes the shared secret with the peer, derives length
// bytes from it with DeriveKey, and zeroes the raw secret.
func (k *Key) AgreeAndDerive(priv, peerPub, salt, info []byte, length int) ([]byte, error) {
	secret, err := k.Agree(priv, peerPub)
	if err != nil {
		return nil, err
	}
	defer secureZero(secret)
	return DeriveKey(secret, salt, info, length)
}
