package docdelve

import (
	"errors"
	"fmt"
)

// Kind classifies the errors this package can return, per the taxonomy
// laid out for the chest store and chest database. Every error built by
// newErr wraps the Err* sentinel of its Kind, so callers match with
// errors.Is against that sentinel rather than on the wrapped message.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidName
	KindNotFound
	KindTypeConflict
	KindCorruptArchive
	KindMissingBackingArchive
	KindPatchConflict
	KindNotText
	KindInvalidManifest
	KindInvalidVersion
	KindIOError
	KindConfigError
)

func (k Kind) String() string {
	switch k {
	case KindInvalidName:
		return "invalid name"
	case KindNotFound:
		return "not found"
	case KindTypeConflict:
		return "type conflict"
	case KindCorruptArchive:
		return "corrupt archive"
	case KindMissingBackingArchive:
		return "missing backing archive"
	case KindPatchConflict:
		return "patch conflict"
	case KindNotText:
		return "not text"
	case KindInvalidManifest:
		return "invalid manifest"
	case KindInvalidVersion:
		return "invalid version"
	case KindIOError:
		return "io error"
	case KindConfigError:
		return "config error"
	default:
		return "unknown error"
	}
}

// sentinels usable directly with errors.Is, one per Kind, mirroring how
// the teacher exposes ErrSymlinkLoop / ErrManifestTooLarge / ErrArchiveTooLarge
// as package-level vars instead of a bespoke error-code type.
var (
	ErrInvalidName           = errors.New("invalid name")
	ErrNotFound              = errors.New("not found")
	ErrTypeConflict          = errors.New("type conflict")
	ErrCorruptArchive        = errors.New("corrupt archive")
	ErrMissingBackingArchive = errors.New("missing backing archive")
	ErrPatchConflict         = errors.New("patch conflict")
	ErrNotText               = errors.New("not text")
	ErrInvalidManifest       = errors.New("invalid manifest")
	ErrInvalidVersion        = errors.New("invalid version")
	ErrIOError               = errors.New("io error")
	ErrConfigError           = errors.New("config error")
)

func sentinelFor(kind Kind) error {
	switch kind {
	case KindInvalidName:
		return ErrInvalidName
	case KindNotFound:
		return ErrNotFound
	case KindTypeConflict:
		return ErrTypeConflict
	case KindCorruptArchive:
		return ErrCorruptArchive
	case KindMissingBackingArchive:
		return ErrMissingBackingArchive
	case KindPatchConflict:
		return ErrPatchConflict
	case KindNotText:
		return ErrNotText
	case KindInvalidManifest:
		return ErrInvalidManifest
	case KindInvalidVersion:
		return ErrInvalidVersion
	case KindIOError:
		return ErrIOError
	case KindConfigError:
		return ErrConfigError
	default:
		return errors.New("unknown error")
	}
}

// newErr builds an error that carries the Kind-specific sentinel (for
// errors.Is) plus a human-readable path/cause, in the spirit of the
// teacher's fmt.Errorf("%w: ...") call sites.
func newErr(kind Kind, path string, cause error) error {
	sentinel := sentinelFor(kind)
	if cause == nil {
		if path == "" {
			return sentinel
		}
		return fmt.Errorf("%s: %w", path, sentinel)
	}
	if path == "" {
		return fmt.Errorf("%w: %s", sentinel, cause)
	}
	return fmt.Errorf("%s: %w: %s", path, sentinel, cause)
}
