package session

// Session is the decoded payload of a session cookie. It is a plain value:
// changing it has no effect until it is encoded into a new cookie.
type Session struct {
	values map[string]any
}

func newSession(values map[string]any) *Session {
	if values == nil {
		values = make(map[string]any)
	}
	return &Session{values: values}
}

func (s *Session) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the value under key only when it is a string.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.values[key].(string)
	return v, ok
}

func (s *Session) Set(key string, value any) {
	s.values[key] = value
}

func (s *Session) Unset(key string) {
	delete(s.values, key)
}

func (s *Session) Len() int {
	return len(s.values)
}

// clear drops every value
func (s *Session) clear() {
	s.values = make(map[string]any)
}
