package dashboard

// State is the visible state of the dashboard.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateError
	StateDashboard
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

// MarshalText lets State appear by name in JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Settled reports whether the state ends a search attempt.
func (s State) Settled() bool {
	return s == StateError || s == StateDashboard
}

// Visibility tells a renderer which regions to show.
type Visibility struct {
	Spinner       bool `json:"spinner"`
	ErrorBanner   bool `json:"error_banner"`
	Dashboard     bool `json:"dashboard"`
	SubmitEnabled bool `json:"submit_enabled"`
}

// Visibility derives region visibility from the state. At most one of
// spinner, error banner and dashboard is shown.
func (s State) Visibility() Visibility {
	return Visibility{
		Spinner:       s == StateLoading,
		ErrorBanner:   s == StateError,
		Dashboard:     s == StateDashboard,
		SubmitEnabled: s != StateLoading,
	}
}
