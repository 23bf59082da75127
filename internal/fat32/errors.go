package fat32

import "errors"

// Sentinel errors for the taxonomy described in the design notes.
// Scanner-level errors are always recoverable: the caller skips the
// offending record and continues. Boot-sector and device-level errors
// are fatal to the whole operation.
var (
	ErrInvalidBootSignature    = errors.New("fat32: invalid boot signature")
	ErrInvalidClusterNumber    = errors.New("fat32: invalid cluster number")
	ErrDeviceIO                = errors.New("fat32: device I/O error")
	ErrMalformedDirectoryEntry = errors.New("fat32: malformed directory entry")
	ErrInvalidTimestamp        = errors.New("fat32: invalid timestamp")
	ErrLFNChecksumMismatch     = errors.New("fat32: LFN sequence/count mismatch")
	ErrChainTruncated          = errors.New("fat32: cluster chain truncated before expected length")
	ErrStoreIO                 = errors.New("fat32: scan-result store I/O error")
)
