package ffdh

import (
	"crypto/rand"
	"io"
)

// A Config provides the collaborators and limits used by a Key. It is never
// modified by this package, and can be reused. Zero fields select defaults.
type Config struct {
	// Random is the source for cryptographically appropriate random bytes. If
	// nil, crypto/rand.Reader is used.
	Random io.Reader

	// Device optionally performs agreement on behalf of the key, for example
	// a hardware accelerator. A nil Device computes locally.
	Device Device

	// DeviceID identifies the device to the caller's Device implementation.
	DeviceID int

	// MaxGenerationAttempts bounds rejection sampling and parameter search.
	MaxGenerationAttempts int

	// PrimalityRounds is the Miller-Rabin round count for primality checks.
	PrimalityRounds int

	// MinModulusBits is the smallest modulus accepted by SetParamsChecked
	// and GenerateParams.
	MinModulusBits int
}

// withDefaults returns a copy of c with zero fields replaced by defaults.
func (c Config) withDefaults() Config {
	if c.Random == nil {
		c.Random = rand.Reader
	}
	if c.MaxGenerationAttempts <= 0 {
		c.MaxGenerationAttempts = DefaultMaxGenerationAttempts
	}
	if c.PrimalityRounds <= 0 {
		c.PrimalityRounds = DefaultPrimalityRounds
	}
	if c.MinModulusBits <= 0 {
		c.MinModulusBits = DefaultMinModulusBits
	}
	return c
}
