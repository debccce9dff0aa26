package errors

// ServerError represents a Fail response observed from the remote side of
// a connection, or a dispatch failure the server could not turn into a
// response because the connection was no longer writable.
type ServerError struct {
	*baseError
	remoteMessage string // The message text carried by a Fail response.
	connectionID  string // Correlates the error with a server log line.
}

// NewServerError creates a new server/protocol-level error.
func NewServerError(err error, code ErrorCode, msg string) *ServerError {
	return &ServerError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the ServerError type.
func (se *ServerError) WithMessage(msg string) *ServerError {
	se.baseError.WithMessage(msg)
	return se
}

// WithDetail adds contextual information while maintaining the ServerError type.
func (se *ServerError) WithDetail(key string, value any) *ServerError {
	se.baseError.WithDetail(key, value)
	return se
}

// WithRemoteMessage records the message text of a Fail response.
func (se *ServerError) WithRemoteMessage(msg string) *ServerError {
	se.remoteMessage = msg
	return se
}

// WithConnectionID tags this error with the correlation id of the
// connection it occurred on.
func (se *ServerError) WithConnectionID(id string) *ServerError {
	se.connectionID = id
	return se
}

// RemoteMessage returns the message text carried by a Fail response.
func (se *ServerError) RemoteMessage() string {
	return se.remoteMessage
}

// ConnectionID returns the correlation id of the connection this error
// occurred on, if any.
func (se *ServerError) ConnectionID() string {
	return se.connectionID
}

// NewFailResponseError wraps a Fail response's message as an error the
// client can propagate and print.
func NewFailResponseError(message string) *ServerError {
	return NewServerError(nil, ErrorCodeServer, message).WithRemoteMessage(message)
}
