package ffdh

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// Sentinel errors returned by this package. Errors carry context through
// wrapping, so callers must match them with errors.Is.
var (
	// ErrInvalidParams indicates malformed, empty or oversized group parameters.
	ErrInvalidParams = errors.New("ffdh: invalid group parameters")

	// ErrWeakParams indicates group parameters that failed the safety checks
	// of SetParamsChecked.
	ErrWeakParams = errors.New("ffdh: group parameters failed safety checks")

	// ErrRange indicates a public or private value outside its required bounds.
	ErrRange = errors.New("ffdh: value out of range")

	// ErrKeyMismatch indicates a public value that is not g^priv mod p.
	ErrKeyMismatch = errors.New("ffdh: public value does not match private value")

	// ErrUnknownGroup indicates a NamedGroup that is not in the catalog.
	ErrUnknownGroup = errors.New("ffdh: unknown named group")

	// ErrGroupMismatch indicates parameters that differ from the claimed named group.
	ErrGroupMismatch = errors.New("ffdh: parameters do not match named group")

	// ErrInvalidPeerKey indicates a peer public value rejected before agreement.
	ErrInvalidPeerKey = errors.New("ffdh: invalid peer public value")

	// ErrBufferTooSmall indicates an output buffer below the required size.
	// The concrete error is a *BufferTooSmallError carrying that size.
	ErrBufferTooSmall = errors.New("ffdh: output buffer too small")

	// ErrRandomUnavailable indicates the random source failed to supply bytes.
	ErrRandomUnavailable = errors.New("ffdh: random source unavailable")

	// ErrGenerationTimeout indicates key or parameter generation ran out of attempts.
	ErrGenerationTimeout = errors.New("ffdh: generation exceeded maximum attempts")

	// ErrNoParams indicates an operation on a key without group parameters.
	ErrNoParams = errors.New("ffdh: key has no group parameters")

	// ErrNoKey indicates an operation that needs a stored private or public value.
	ErrNoKey = errors.New("ffdh: key has no key pair")

	// ErrInvalidEncoding indicates a malformed DER or PEM key container.
	ErrInvalidEncoding = errors.New("ffdh: malformed key encoding")

	// ErrDeviceUnavailable is returned by a Device that cannot serve a request.
	// Agreement then falls back to the local computation.
	ErrDeviceUnavailable = errors.New("ffdh: device unavailable")
)

// Post-quantum signature error constants.
var (
	// ErrInvalidSignature indicates that signature verification failed.
	ErrInvalidSignature = errors.New("ffdh: signature verification failed")

	// ErrInvalidSigningKey indicates that a signing key has invalid format or length.
	ErrInvalidSigningKey = errors.New("ffdh: invalid signing key")

	// ErrUnsupportedLevel indicates a signature security level with no implementation.
	ErrUnsupportedLevel = errors.New("ffdh: unsupported signature level")
)

// BufferTooSmallError reports the size an output buffer must have. Callers
// can resize to Required and retry.
type BufferTooSmallError struct {
	Output   string // which output was short, e.g. "public", "secret"
	Required int
	Have     int
}

func (e *BufferTooSmallError) Error() string {
	return fmt.Sprintf("ffdh: %s buffer too small: have %d bytes, need %d", e.Output, e.Have, e.Required)
}

func (e *BufferTooSmallError) Unwrap() error {
	return ErrBufferTooSmall
}

// checkCapacity returns a *BufferTooSmallError when buf cannot hold need bytes.
func checkCapacity(output string, buf []byte, need int) error {
	if len(buf) < need {
		return &BufferTooSmallError{Output: output, Required: need, Have: len(buf)}
	}
	return nil
}

// wrapf attaches package context to a sentinel.
func wrapf(err error, format string, args ...any) error {
	return oops.In("ffdh").Wrapf(err, format, args...)
}
