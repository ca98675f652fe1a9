package domain

// SearchStatus is the terminal state of a watchlist search.
type SearchStatus int

const (
	SearchRunning SearchStatus = iota
	SearchCompleted
	SearchCancelled
	SearchFailed
)

func (s SearchStatus) String() string {
	switch s {
	case SearchRunning:
		return "running"
	case SearchCompleted:
		return "completed"
	case SearchCancelled:
		return "cancelled"
	case SearchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SearchProgress is a snapshot of a running search, emitted after every
// resolved movie and after every completed batch.
type SearchProgress struct {
	Total     int // watchlist size
	Processed int // movies resolved so far (kept and discarded)
	Found     int // cumulative survivors with availability

	// Movies is the cumulative survivor list, only populated on batch
	// boundaries so the presentation layer can render incrementally.
	Movies []Movie

	Status SearchStatus
	Err    error // set when Status == SearchFailed
}

// SearchObserver receives progress updates from the batch orchestrator.
type SearchObserver interface {
	OnProgress(progress SearchProgress)
}

// ObserverFunc adapts a function to the SearchObserver interface.
type ObserverFunc func(progress SearchProgress)

func (f ObserverFunc) OnProgress(progress SearchProgress) { f(progress) }
