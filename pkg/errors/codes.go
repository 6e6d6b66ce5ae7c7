package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary. This includes file system operations like reading or
	// writing segment files, network operations when communicating with remote
	// systems, and device I/O when accessing storage hardware.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints. This maps
	// to HTTP 400-series errors and indicates problems with the request itself
	// rather than system failures.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories. These are the equivalent of HTTP 500 errors and
	// indicate bugs, assertion failures, or other programming errors that
	// shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes extend the base error taxonomy to handle the
// unique failure modes that occur in persistent storage systems. These codes
// represent problems that are specific to the storage layer of your key-value
// store, particularly focusing on segment file management and data persistence.
const (
	// ErrorCodeSegmentCorrupted indicates that a segment file's data has been
	// damaged or is in an inconsistent state, e.g. an indexed record that no
	// longer decodes from its recorded location.
	ErrorCodeSegmentCorrupted ErrorCode = "SEGMENT_CORRUPTED"

	// ErrorCodePayloadReadFailure indicates the bytes of a framed record
	// could not be read back from a segment at the offset and length the
	// index recorded for it.
	ErrorCodePayloadReadFailure ErrorCode = "PAYLOAD_READ_FAILURE"

	// ErrorCodeRecoveryFailed indicates the engine could not rescan an
	// existing segment while rebuilding the index at startup. This is a
	// compound failure: the data may be intact but the engine cannot prove
	// it, so opening the store fails rather than serving a partial index.
	ErrorCodeRecoveryFailed ErrorCode = "STORAGE_RECOVERY_FAILED"

	// ErrorCodePermissionDenied indicates insufficient permissions to access a resource.
	// This is distinct from generic IO errors because it has a specific resolution path:
	// the user needs to adjust file/directory permissions or run with elevated privileges.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the storage device has run out of space.
	// This requires specific handling like cleanup operations or alerting administrators.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem is mounted read-only.
	// This requires administrative intervention to remount the filesystem with write permissions.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// Index-specific error codes. The index keeps every key's disk location in
// memory, so these describe failures in that bookkeeping rather than in the
// underlying segment files themselves.
const (
	// ErrorCodeIndexKeyNotFound indicates a lookup for a key with no entry
	// in the index, either because it was never written or because its
	// most recent record is a delete tombstone.
	ErrorCodeIndexKeyNotFound ErrorCode = "INDEX_KEY_NOT_FOUND"

	// ErrorCodeIndexInvalidSegmentID indicates an index entry pointing at a
	// segment ID that no longer has an open file backing it.
	ErrorCodeIndexInvalidSegmentID ErrorCode = "INDEX_INVALID_SEGMENT_ID"
)

// Codec, client, lock, and backend error codes extend the taxonomy to cover
// the components added around the original storage/index core: framing
// records on and off disk, talking to a remote server, coordinating
// concurrent access, and delegating to an alternate embedded backend.
const (
	// ErrorCodeEncoding indicates a record could not be framed for writing.
	ErrorCodeEncoding ErrorCode = "ENCODING_ERROR"

	// ErrorCodeDecoding indicates a frame read from a segment was
	// malformed or failed its checksum.
	ErrorCodeDecoding ErrorCode = "DECODING_ERROR"

	// ErrorCodeClient indicates a client received an ERR response from a
	// server, or could not complete the request/response exchange.
	ErrorCodeClient ErrorCode = "CLIENT_ERROR"

	// ErrorCodeLock indicates a failure acquiring exclusive access to
	// shared engine state.
	ErrorCodeLock ErrorCode = "LOCK_ERROR"

	// ErrorCodeBackend indicates a failure reported by an alternate,
	// non-native storage backend (e.g. the bbolt adapter).
	ErrorCodeBackend ErrorCode = "BACKEND_ERROR"
)
