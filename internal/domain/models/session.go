package models

// Session is the request-scoped state carried by the session cookie.
// Services receive it explicitly; handlers persist it before responding.
type Session struct {
	Username string
	Message  string
}

// SignedIn reports whether a user is attached to the session
func (s *Session) SignedIn() bool {
	return s != nil && s.Username != ""
}

// SetMessage stores the one-shot status message for the next listing view
func (s *Session) SetMessage(msg string) {
	s.Message = msg
}

// ConsumeMessage returns the pending message and clears it
func (s *Session) ConsumeMessage() string {
	msg := s.Message
	s.Message = ""
	return msg
}
