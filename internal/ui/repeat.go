package ui

// RepeatMode decides what happens when the track ends.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota // stop and wait for a replay
	RepeatOne                   // start a fresh session from the top
)

// Next cycles to the next repeat mode.
func (r RepeatMode) Next() RepeatMode {
	if r == RepeatOff {
		return RepeatOne
	}
	return RepeatOff
}

// Icon returns the status line marker, empty when off.
func (r RepeatMode) Icon() string {
	if r == RepeatOne {
		return "↻ loop"
	}
	return ""
}
