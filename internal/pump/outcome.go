package pump

import "fmt"

// Outcome says why a session ended.
type Outcome int

const (
	PeerClosed Outcome = iota
	ConnectionReset
	ReadError
	Canceled
)

func (o Outcome) String() string {
	switch o {
	case PeerClosed:
		return "peer closed"
	case ConnectionReset:
		return "connection reset"
	case ReadError:
		return "read error"
	case Canceled:
		return "canceled"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

type Result struct {
	Outcome Outcome
	// Err is nil for PeerClosed.
	Err error
	// InputDone reports that the local input had been exhausted (or failed)
	// and the connection shut down before the session ended.
	InputDone bool
}
