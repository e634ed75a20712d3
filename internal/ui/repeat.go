package ui

// LoopMode controls what autoplay does once it reaches an end of the chain.
type LoopMode int

const (
	LoopOff LoopMode = iota
	LoopOn
)

// Next cycles to the next loop mode.
func (l LoopMode) Next() LoopMode {
	switch l {
	case LoopOff:
		return LoopOn
	default:
		return LoopOff
	}
}

// String returns the name of the loop mode.
func (l LoopMode) String() string {
	switch l {
	case LoopOn:
		return "loop"
	default:
		return "off"
	}
}

// Icon returns a visual indicator for the loop mode.
func (l LoopMode) Icon() string {
	switch l {
	case LoopOn:
		return "[loop]"
	default:
		return ""
	}
}
