package librarian

// State is the librarian's scheduling state.
type State int32

const (
	// StateResting means the librarian is idle, waiting for a wake.
	StateResting State = iota
	// StateActive means the librarian is draining the request queue.
	StateActive
)

func (s State) String() string {
	switch s {
	case StateResting:
		return "resting"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}
