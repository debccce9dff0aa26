package errors

// CodecError is a specialized error type for failures decoding the wire
// grammar, whether read off a TCP connection or off a segment file. It
// embeds baseError to inherit chaining, codes, and structured details.
type CodecError struct {
	*baseError
	fragment string // The raw bytes (or a bounded prefix) that failed to parse.
	expected string // A human description of what the decoder expected next.
}

// NewCodecError creates a new codec-specific error.
func NewCodecError(err error, code ErrorCode, msg string) *CodecError {
	return &CodecError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the CodecError type.
func (ce *CodecError) WithMessage(msg string) *CodecError {
	ce.baseError.WithMessage(msg)
	return ce
}

// WithDetail adds contextual information while maintaining the CodecError type.
func (ce *CodecError) WithDetail(key string, value any) *CodecError {
	ce.baseError.WithDetail(key, value)
	return ce
}

// WithFragment records the offending input bytes, truncated by the caller
// to a reasonable bound before attaching.
func (ce *CodecError) WithFragment(fragment string) *CodecError {
	ce.fragment = fragment
	return ce
}

// WithExpected records what the decoder expected to find next.
func (ce *CodecError) WithExpected(expected string) *CodecError {
	ce.expected = expected
	return ce
}

// Fragment returns the offending input bytes captured at failure time.
func (ce *CodecError) Fragment() string {
	return ce.fragment
}

// Expected returns the description of what the decoder wanted to see.
func (ce *CodecError) Expected() string {
	return ce.expected
}

// NewTrailingBytesError reports that a decoder consumed a complete
// structure but bytes remained in the input.
func NewTrailingBytesError(fragment string) *CodecError {
	return NewCodecError(nil, ErrorCodeCodec, "trailing bytes after decoded structure").
		WithFragment(fragment).
		WithExpected("end of input")
}
