package ffdh

import "io"

// A DHFunc implements Diffie-Hellman key agreement over a fixed group.
type DHFunc interface {
	// GenerateKeypair generates a new keypair using random as a source of
	// entropy.
	GenerateKeypair(random io.Reader) (DHKey, error)

	// DH performs a Diffie-Hellman calculation between the provided private and
	// public keys and returns the result.
	DH(privkey, pubkey []byte) ([]byte, error)

	// DHLen is the number of bytes returned by DH.
	DHLen() int

	// DHName is the name of the DH function.
	DHName() string
}

// A Device performs agreement outside the process, for example on an
// accelerator. Implementations return ErrDeviceUnavailable for requests they
// cannot serve, in which case the Key computes the secret itself.
//
// The returned secret must be exactly params.Size() bytes.
type Device interface {
	Agree(params GroupParams, priv, peerPub []byte) ([]byte, error)
}

// A KeyCodec converts keys to and from a serialized container format.
type KeyCodec interface {
	// Encode serializes the key's parameters and key material.
	Encode(k *Key) ([]byte, error)

	// Decode parses data into a new Key created with cfg.
	Decode(data []byte, cfg Config) (*Key, error)
}

// SignatureFunc provides digital signature capabilities for authentication.
// This is used for post-quantum signature schemes like ML-DSA (FIPS 204).
// Keys and signatures are flat byte slices of fixed, level-dependent size.
type SignatureFunc interface {
	// GenerateSigningKey generates a new signing keypair using random as a source of entropy.
	GenerateSigningKey(random io.Reader) (SigningKey, error)

	// Sign creates a signature over the given message using the private key.
	Sign(privkey, message []byte) (signature []byte, err error)

	// Verify checks that a signature is valid for the given message and public key.
	// Returns an error if verification fails.
	Verify(pubkey, message, signature []byte) error

	// PublicKeyLen returns the length in bytes of signature public keys.
	PublicKeyLen() int

	// PrivateKeyLen returns the length in bytes of signature private keys.
	PrivateKeyLen() int

	// SignatureLen returns the length in bytes of signatures.
	SignatureLen() int

	// SignatureName returns the name of the signature algorithm (e.g., "MLDSA65").
	SignatureName() string
}
