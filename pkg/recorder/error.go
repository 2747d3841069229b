package recorder

// ErrSessionNotFound is returned when a session has no recorded events.
type ErrSessionNotFound struct {
	SessionID string
}

func (e ErrSessionNotFound) Error() string {
	if e.SessionID == "" {
		return "session not found"
	}

	return "session not found: " + e.SessionID
}
