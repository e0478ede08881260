package ffdh

// A DHKey is a keypair used for Diffie-Hellman key agreement. Both values
// are big-endian and padded to a fixed width.
type DHKey struct {
	Private []byte
	Public  []byte
}

// A SigningKey is a keypair used for post-quantum signatures.
type SigningKey struct {
	Private []byte
	Public  []byte
}

// Zero overwrites both halves of the keypair.
func (k *DHKey) Zero() {
	secureZero(k.Private)
	secureZero(k.Public)
}
