package service

import "sync/atomic"

// CancelToken is the cooperative cancellation flag for one search. It is
// polled only between watchlist pages and between batches, never finer,
// so in-flight requests for a started batch always run to completion.
type CancelToken struct {
	flag atomic.Bool
}

// NewCancelToken returns an unset token.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel requests early termination at the next checkpoint.
func (t *CancelToken) Cancel() {
	t.flag.Store(true)
}

// Cancelled reports whether cancellation has been requested.
func (t *CancelToken) Cancelled() bool {
	if t == nil {
		return false
	}
	return t.flag.Load()
}
