package ingestion

// State is a step of an ingestion run.
type State int32

const (
	StateIdle State = iota
	StateSchemaReady
	StateReading
	StateExtracting
	StateBatching
	StateFlushing
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StateSchemaReady: "schema-ready",
	StateReading:     "reading",
	StateExtracting:  "extracting",
	StateBatching:    "batching",
	StateFlushing:    "flushing",
	StateDone:        "done",
	StateFailed:      "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
