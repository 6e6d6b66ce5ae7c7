package errors

// ClientError reports a failure observed by the client side of a
// request/response exchange: either the server replied with an ERR status,
// or the exchange itself (dial, write, read) could not complete.
type ClientError struct {
	*baseError
}

// NewClientError creates a ClientError wrapping the server's error body or
// the underlying transport failure.
func NewClientError(err error, msg string) *ClientError {
	return &ClientError{baseError: NewBaseError(err, ErrorCodeClient, msg)}
}

// WithDetail adds contextual information while preserving the ClientError type.
func (ce *ClientError) WithDetail(key string, value any) *ClientError {
	ce.baseError.WithDetail(key, value)
	return ce
}
