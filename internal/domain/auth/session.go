package auth

// Session is the authenticated scope handed explicitly to data access.
// Every record query is restricted to Session.UserID.
type Session struct {
	UserID string
	Email  string
}

func (s Session) Valid() bool {
	return s.UserID != ""
}
