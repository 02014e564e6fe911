package protocol

// ServerState is the lifecycle stage of a Server.
type ServerState int

const (
	// StateCreated is the state of a server that has not seen any share.
	StateCreated ServerState = iota
	// StateReceiving is entered on the first verification or aggregation call.
	StateReceiving
	// StateFinalized is terminal; the accumulator no longer changes.
	StateFinalized
)

func (s ServerState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateReceiving:
		return "receiving"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// IsAfter reports whether s is a later lifecycle stage than other.
func (s ServerState) IsAfter(other ServerState) bool {
	return s > other
}

// Stats counts the outcomes of aggregation calls.
type Stats struct {
	Accepted  uint64 `json:"accepted"`
	Rejected  uint64 `json:"rejected"`
	Malformed uint64 `json:"malformed"`
}

// Add returns the element-wise sum of two counters.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Accepted:  s.Accepted + o.Accepted,
		Rejected:  s.Rejected + o.Rejected,
		Malformed: s.Malformed + o.Malformed,
	}
}
