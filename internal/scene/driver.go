package scene

// Token identifies one started session. A frame loop carries the token it was
// started with and stops rescheduling once the token is stale.
type Token uint64

// Driver tracks the single active session. It is used from one goroutine
// (the UI event loop) and is not safe for concurrent use.
type Driver struct {
	seq     Token
	current *Session
}

// Start makes s the active session and returns its token. Any earlier token
// becomes stale.
func (d *Driver) Start(s *Session) Token {
	d.seq++
	d.current = s
	return d.seq
}

// Stop invalidates the current token.
func (d *Driver) Stop() {
	d.seq++
	d.current = nil
}

// Current returns the active session if t is still the latest token.
func (d *Driver) Current(t Token) (*Session, bool) {
	if d.current == nil || t != d.seq {
		return nil, false
	}
	return d.current, true
}

// Tick steps the session for t. It reports false when t is stale, in which
// case the caller must not schedule another tick.
func (d *Driver) Tick(t Token) (Frame, bool) {
	s, ok := d.Current(t)
	if !ok {
		return Frame{}, false
	}
	return s.Step(), true
}
