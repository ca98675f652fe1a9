package tui

import "streamlist/internal/domain"

// ChannelObserver adapts domain.SearchObserver to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan<- domain.SearchProgress
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- domain.SearchProgress) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnProgress sends progress to the channel. Per-title ticks carry no
// result slice and are dropped when the channel is full; skipping one
// only skips an animation frame. Snapshots with Movies set carry the
// accumulated results and must reach the model, so those block until
// the channel drains.
func (o *ChannelObserver) OnProgress(progress domain.SearchProgress) {
	if progress.Movies != nil {
		o.ch <- progress
		return
	}
	select {
	case o.ch <- progress:
	default:
	}
}
