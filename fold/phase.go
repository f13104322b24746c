package fold

// Phase is where a run is in its lifecycle.
type Phase int

// Run phases. A run moves Idle, Folding, then Done, or stops in Failed.
const (
	PhaseIdle Phase = iota
	PhaseFolding
	PhaseDone
	PhaseFailed
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFolding:
		return "folding"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
