package feed

// transportUnavailableError signals that the streaming capability was missing
// at construction time; the manager is never usable after this.
type transportUnavailableError struct{ msg string }

func (e transportUnavailableError) Error() string { return e.msg }

// ErrTransportUnavailable constructs a transportUnavailableError.
func ErrTransportUnavailable(msg string) error { return transportUnavailableError{msg: msg} }

// IsTransportUnavailable reports whether err indicates the push transport
// could not be provided.
func IsTransportUnavailable(err error) bool {
	_, ok := err.(transportUnavailableError)
	return ok
}
