package ffdh

// pq_sign.go - Post-quantum signature implementations
//
// This file wraps the Cloudflare CIRCL ML-DSA (FIPS 204) schemes behind the
// SignatureFunc interface defined in types.go. Keys and signatures are flat
// byte slices whose sizes depend only on the security level, so callers can
// store them next to DH key material without further encoding.

import (
	"io"

	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
)

// mldsaWrapper adapts a CIRCL sign.Scheme to SignatureFunc.
type mldsaWrapper struct {
	scheme         sign.Scheme
	name           string
	publicKeySize  int
	privateKeySize int
	signatureSize  int
}

// GenerateSigningKey generates a new signing keypair from a seed read from
// rng. If rng is nil, crypto/rand.Reader is used.
func (m mldsaWrapper) GenerateSigningKey(rng io.Reader) (SigningKey, error) {
	rng = Config{Random: rng}.withDefaults().Random

	seed := make([]byte, m.scheme.SeedSize())
	defer secureZero(seed)
	if _, err := io.ReadFull(rng, seed); err != nil {
		return SigningKey{}, wrapf(ErrRandomUnavailable, "read: %v", err)
	}

	pub, priv := m.scheme.DeriveKey(seed)

	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return SigningKey{}, err
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return SigningKey{}, err
	}
	return SigningKey{Public: pubBytes, Private: privBytes}, nil
}

// Sign signs message with privkey. Signing is deterministic.
func (m mldsaWrapper) Sign(privkey, message []byte) ([]byte, error) {
	if len(privkey) != m.privateKeySize {
		return nil, wrapf(ErrInvalidSigningKey, "%s private key of %d bytes", m.name, len(privkey))
	}
	priv, err := m.scheme.UnmarshalBinaryPrivateKey(privkey)
	if err != nil {
		return nil, wrapf(ErrInvalidSigningKey, "%s: %v", m.name, err)
	}
	return m.scheme.Sign(priv, message, nil), nil
}

// Verify returns ErrInvalidSignature unless signature is valid for message
// under pubkey.
func (m mldsaWrapper) Verify(pubkey, message, signature []byte) error {
	if len(pubkey) != m.publicKeySize {
		return wrapf(ErrInvalidSigningKey, "%s public key of %d bytes", m.name, len(pubkey))
	}
	if len(signature) != m.signatureSize {
		return wrapf(ErrInvalidSignature, "%s signature of %d bytes", m.name, len(signature))
	}
	pub, err := m.scheme.UnmarshalBinaryPublicKey(pubkey)
	if err != nil {
		return wrapf(ErrInvalidSigningKey, "%s: %v", m.name, err)
	}
	if !m.scheme.Verify(pub, message, signature, nil) {
		return ErrInvalidSignature
	}
	return nil
}

func (m mldsaWrapper) PublicKeyLen() int     { return m.publicKeySize }
func (m mldsaWrapper) PrivateKeyLen() int    { return m.privateKeySize }
func (m mldsaWrapper) SignatureLen() int     { return m.signatureSize }
func (m mldsaWrapper) SignatureName() string { return m.name }

// Exported signature function instances.
var (
	// SigMLDSA44 provides NIST Security Level 2 (~AES-128 equivalent).
	SigMLDSA44 SignatureFunc = mldsaWrapper{
		scheme:         mldsa44.Scheme(),
		name:           "MLDSA44",
		publicKeySize:  MLDSA44PublicKeySize,
		privateKeySize: MLDSA44PrivateKeySize,
		signatureSize:  MLDSA44SignatureSize,
	}

	// SigMLDSA65 provides NIST Security Level 3 (~AES-192 equivalent) - RECOMMENDED
	SigMLDSA65 SignatureFunc = mldsaWrapper{
		scheme:         mldsa65.Scheme(),
		name:           "MLDSA65",
		publicKeySize:  MLDSA65PublicKeySize,
		privateKeySize: MLDSA65PrivateKeySize,
		signatureSize:  MLDSA65SignatureSize,
	}

	// SigMLDSA87 provides NIST Security Level 5 (~AES-256 equivalent).
	SigMLDSA87 SignatureFunc = mldsaWrapper{
		scheme:         mldsa87.Scheme(),
		name:           "MLDSA87",
		publicKeySize:  MLDSA87PublicKeySize,
		privateKeySize: MLDSA87PrivateKeySize,
		signatureSize:  MLDSA87SignatureSize,
	}
)

// SignatureForLevel returns the signature function for a NIST security
// level: 2, 3 or 5.
func SignatureForLevel(level int) (SignatureFunc, error) {
	switch level {
	case 2:
		return SigMLDSA44, nil
	case 3:
		return SigMLDSA65, nil
	case 5:
		return SigMLDSA87, nil
	default:
		return nil, wrapf(ErrUnsupportedLevel, "level %d", level)
	}
}
