// Package errs defines the error taxonomy shared by every naf package.
//
// Every failure the decoder can produce belongs to one of a small set of
// kinds: Truncated, Corrupt, UnsupportedVersion, UnsupportedProjection, IO,
// or Config. Callers that need to react differently to, say, a truncated
// stream versus a corrupt one should use errors.Is against the sentinel
// values below, or call Is with a Kind to classify an arbitrary error
// returned from this module.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a naf error into one of the taxonomy buckets from the
// format's error handling design.
type Kind uint8

const (
	// KindUnknown is never returned by this package; it is the zero value.
	KindUnknown Kind = iota
	// KindTruncated means the input ended before a required field or section completed.
	KindTruncated
	// KindCorrupt means a structural violation was detected in otherwise-present input.
	KindCorrupt
	// KindUnsupportedVersion means the archive's format version is outside the accepted set.
	KindUnsupportedVersion
	// KindUnsupportedProjection means the requested projection is incompatible with the archive's flags.
	KindUnsupportedProjection
	// KindIO means an underlying read or write failed.
	KindIO
	// KindConfig means the caller supplied an invalid option or flag combination.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindTruncated:
		return "truncated"
	case KindCorrupt:
		return "corrupt"
	case KindUnsupportedVersion:
		return "unsupported version"
	case KindUnsupportedProjection:
		return "unsupported projection"
	case KindIO:
		return "io"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error is the concrete error type produced throughout naf. It always
// carries a Kind so callers can classify it without string matching, and it
// wraps an optional underlying cause (e.g. an io.Reader error).
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("naf: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}

	return fmt.Sprintf("naf: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error of the given kind, chaining an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return New(kind, format, args...)
	}

	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Is reports whether err is a naf error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}

	return false
}

// KindOf returns err's Kind when err is (or wraps) a naf *Error, and
// fallback otherwise. Wrappers that add context to an already-classified
// error use it to keep the original classification.
func KindOf(err error, fallback Kind) Kind {
	if k := GetKind(err); k != KindUnknown {
		return k
	}

	return fallback
}

// GetKind extracts the Kind from err, returning KindUnknown if err is not a
// naf *Error (or wraps one).
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// Sentinel errors for conditions that do not need a dynamic message. These
// are suitable targets for errors.Is from calling code; naf itself prefers
// Wrap/New so the message carries context, but tests and callers can still
// match on these as stable identities via errors.Is(err, ErrBadMagic) etc.
var (
	// ErrBadMagic is returned when the archive's leading three bytes do not match the NAF magic.
	ErrBadMagic = &Error{Kind: KindCorrupt, Msg: "bad magic number"}
	// ErrVarintOverflow is returned when a variable-length integer would exceed 64 bits.
	ErrVarintOverflow = &Error{Kind: KindCorrupt, Msg: "varint overflow"}
	// ErrVarintRedundant is returned when a varint's leading byte is the forbidden 0x80.
	ErrVarintRedundant = &Error{Kind: KindCorrupt, Msg: "redundant varint encoding"}
	// ErrMaskSumMismatch is returned when mask run lengths do not sum to the total base count.
	ErrMaskSumMismatch = &Error{Kind: KindCorrupt, Msg: "mask run sum does not match sequence length"}
	// ErrFieldCountMismatch is returned when ids/names entry counts disagree with the header's sequence count.
	ErrFieldCountMismatch = &Error{Kind: KindCorrupt, Msg: "field entry count does not match sequence count"}
	// ErrChecksumMismatch is returned when the extended section's xxHash64 digest disagrees with the recomputed one.
	ErrChecksumMismatch = &Error{Kind: KindCorrupt, Msg: "extended section checksum mismatch"}
)

// Is reports whether err matches the sentinel target, supporting
// errors.Is(err, errs.ErrBadMagic) style comparisons against the *Error
// values above (which compare by identity since errors.New-like sentinels
// are package-level vars).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t
}
