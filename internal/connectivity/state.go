package connectivity

// State mirrors the lifecycle of one external dependency. Transitions are
// driven only by the owning Supervisor; everything else reads snapshots.
type State string

const (
	StateDisconnected  State = "disconnected"
	StateConnecting    State = "connecting"
	StateConnected     State = "connected"
	StateDisconnecting State = "disconnecting"
)

// Snapshot is a read-only view of a dependency's connection state.
type Snapshot struct {
	Name         string
	State        State
	AttemptCount int
	LastError    string
}

func (s Snapshot) Connected() bool {
	return s.State == StateConnected
}
