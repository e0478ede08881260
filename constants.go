package ffdh

// Modulus size limits. MaxModulusSize bounds every p, g and q buffer accepted
// by SetParams and every output written by this package.
const (
	MaxModulusBits = 8192
	MaxModulusSize = MaxModulusBits / 8

	// DefaultMinModulusBits is the smallest modulus SetParamsChecked and
	// GenerateParams accept unless Config.MinModulusBits overrides it.
	DefaultMinModulusBits = 1024
)

// Generation and checking defaults used when the matching Config field is zero.
const (
	// DefaultMaxGenerationAttempts bounds rejection sampling of private
	// values and the candidate search of GenerateParams.
	DefaultMaxGenerationAttempts = 1 << 15

	// DefaultPrimalityRounds is the number of Miller-Rabin rounds passed to
	// math/big in addition to its Baillie-PSW test.
	DefaultPrimalityRounds = 20
)

// Subgroup order sizes used by GenerateParams, in bits.
const (
	smallSubgroupBits = 160
	largeSubgroupBits = 256
)

// MLDSA (Module-Lattice-Based Digital Signature Algorithm) constants.
// These values are defined in NIST FIPS 204 and represent the sizes of
// keys and signatures for each security level.
//
// MLDSA-44: NIST Security Level 2 (~AES-128 equivalent)
// MLDSA-65: NIST Security Level 3 (~AES-192 equivalent) - RECOMMENDED
// MLDSA-87: NIST Security Level 5 (~AES-256 equivalent)
const (
	// MLDSA-44 sizes (NIST Security Level 2)
	MLDSA44PublicKeySize  = 1312
	MLDSA44PrivateKeySize = 2560
	MLDSA44SignatureSize  = 2420

	// MLDSA-65 sizes (NIST Security Level 3) - Recommended for most use cases
	MLDSA65PublicKeySize  = 1952
	MLDSA65PrivateKeySize = 4032
	MLDSA65SignatureSize  = 3309

	// MLDSA-87 sizes (NIST Security Level 5)
	MLDSA87PublicKeySize  = 2592
	MLDSA87PrivateKeySize = 4896
	MLDSA87SignatureSize  = 4627
)
