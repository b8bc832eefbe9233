package models

// Phase is where an asynchronous operation currently stands. Exactly one
// phase is active per operation; only its controller moves it.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBusy
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBusy:
		return "busy"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// OpState is the published state of one operation. Value carries the success
// payload (an identity id, a report id, or a confirmation line), Message the
// error text. Both are empty outside their phase.
type OpState struct {
	Phase   Phase
	Value   string
	Message string
}

func Idle() OpState { return OpState{Phase: PhaseIdle} }
func Busy() OpState { return OpState{Phase: PhaseBusy} }

func Success(value string) OpState { return OpState{Phase: PhaseSuccess, Value: value} }

func Failure(message string) OpState { return OpState{Phase: PhaseError, Message: message} }

// Filter narrows the feed to reports in one status. FilterAll is identity.
type Filter int

const (
	FilterAll Filter = iota
	FilterPending
	FilterInProgress
	FilterResolved
)

func (f Filter) Label() string {
	switch f {
	case FilterPending:
		return "Pending"
	case FilterInProgress:
		return "In Progress"
	case FilterResolved:
		return "Resolved"
	default:
		return "All Reports"
	}
}

// Status returns the status this filter selects, or ok=false for FilterAll.
func (f Filter) Status() (Status, bool) {
	switch f {
	case FilterPending:
		return StatusPending, true
	case FilterInProgress:
		return StatusInProgress, true
	case FilterResolved:
		return StatusResolved, true
	default:
		return "", false
	}
}

// Sort orders the filtered feed.
type Sort int

const (
	SortNewest Sort = iota
	SortOldest
	SortMostUpvoted
	SortNearest
)

func (s Sort) Label() string {
	switch s {
	case SortOldest:
		return "Oldest First"
	case SortMostUpvoted:
		return "Most Upvoted"
	case SortNearest:
		return "Nearest to Me"
	default:
		return "Newest First"
	}
}
