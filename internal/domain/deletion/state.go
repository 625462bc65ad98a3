package deletion

// State - состояние отложенного удаления.
type State int

const (
	StateRequested State = iota
	StateCommittedOk
	StateCommittedFail
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateCommittedOk:
		return "committed"
	case StateCommittedFail:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Final - состояние больше не изменится.
func (s State) Final() bool {
	return s != StateRequested
}
