package errors

// baseError is the foundation every error type in this package embeds. It
// carries the four things any failure in the store needs to communicate: a
// wrapped cause, a human-readable message, a machine-readable code, and a
// bag of structured details for logging.
type baseError struct {
	cause   error          // The underlying error, if any, preserved for errors.Is/As.
	message string         // Human-readable description of the failure.
	code    ErrorCode      // Machine-readable category for programmatic handling.
	details map[string]any // Structured context: paths, offsets, keys, and the like.
}

// NewBaseError creates a baseError wrapping err with the given code and
// message.
func NewBaseError(err error, code ErrorCode, msg string) *baseError {
	return &baseError{cause: err, code: code, message: msg}
}

// WithMessage replaces the error message, for errors built up in steps.
func (be *baseError) WithMessage(msg string) *baseError {
	be.message = msg
	return be
}

// WithCode replaces the error code.
func (be *baseError) WithCode(code ErrorCode) *baseError {
	be.code = code
	return be
}

// WithDetail attaches one key/value of context. The details map is
// allocated lazily, so errors that never attach details stay cheap.
func (be *baseError) WithDetail(key string, value any) *baseError {
	if be.details == nil {
		be.details = make(map[string]any)
	}
	be.details[key] = value
	return be
}

// Error implements the error interface.
func (b *baseError) Error() string {
	return b.message
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (b *baseError) Unwrap() error {
	return b.cause
}

// Code returns the error's category code.
func (b *baseError) Code() ErrorCode {
	return b.code
}

// Details returns the structured context attached to this error. The
// returned map is the error's own; callers should not mutate it.
func (b *baseError) Details() map[string]any {
	return b.details
}
