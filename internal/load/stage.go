package load

import "fmt"

// Stage identifies one of the four sequential ingestion phases. The set is
// closed: the orchestrator dispatches stages from a fixed sequence, never
// from an open-ended lookup.
type Stage int

const (
	StageCategories Stage = iota
	StageProducts
	StageContacts
	StageSales
)

// String returns the stage name used in logs and error reports.
func (s Stage) String() string {
	switch s {
	case StageCategories:
		return "categories"
	case StageProducts:
		return "products"
	case StageContacts:
		return "contacts"
	case StageSales:
		return "sales"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// State is the orchestrator's lifecycle position. Loading states map 1:1 to
// the stage currently running.
type State int

const (
	StateNotStarted State = iota
	StateLoadingCategories
	StateLoadingProducts
	StateLoadingContacts
	StateLoadingSales
	StateReady
	StateFailed
)

// String returns the state name reported by the health endpoint.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateLoadingCategories:
		return "loading_categories"
	case StateLoadingProducts:
		return "loading_products"
	case StateLoadingContacts:
		return "loading_contacts"
	case StateLoadingSales:
		return "loading_sales"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func loadingState(stage Stage) State {
	switch stage {
	case StageCategories:
		return StateLoadingCategories
	case StageProducts:
		return StateLoadingProducts
	case StageContacts:
		return StateLoadingContacts
	default:
		return StateLoadingSales
	}
}

// StageError reports a fatal stream-level failure (I/O or JSON syntax) in
// one ingestion stage. It aborts the whole load run; per-record anomalies
// never surface as a StageError.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("loading %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
