package errors

// BackendError reports a failure surfaced by an alternate, non-native
// storage backend sitting behind the same engine contract as the
// log-structured engine, e.g. the bbolt adapter.
type BackendError struct {
	*baseError
	backend string
}

// NewBackendError creates a BackendError for the named backend.
func NewBackendError(err error, backend, msg string) *BackendError {
	return &BackendError{baseError: NewBaseError(err, ErrorCodeBackend, msg), backend: backend}
}

// WithDetail adds contextual information while preserving the BackendError type.
func (be *BackendError) WithDetail(key string, value any) *BackendError {
	be.baseError.WithDetail(key, value)
	return be
}

// Backend returns the name of the backend that reported the failure.
func (be *BackendError) Backend() string {
	return be.backend
}
