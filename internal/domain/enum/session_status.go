package enum

// SessionStatus represents the lifecycle state of a cash session.
// A session is created open and closed exactly once; closed is terminal.
type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "open"
	SessionStatusClosed SessionStatus = "closed"
)

// IsValid checks if the status is a valid SessionStatus
func (s SessionStatus) IsValid() bool {
	return s == SessionStatusOpen || s == SessionStatusClosed
}

func (s SessionStatus) String() string {
	return string(s)
}
