package engine

import (
	"sync"
	"sync/atomic"
)

// ChannelSink buffers engine events for a consumer that polls, such as a
// Bubble Tea model reading once per frame or an SSH session.
type ChannelSink struct {
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
	dropped   atomic.Int64
}

// NewChannelSink creates a sink holding up to size events.
func NewChannelSink(size int) *ChannelSink {
	if size < 1 {
		size = 64
	}
	return &ChannelSink{
		events: make(chan Event, size),
		done:   make(chan struct{}),
	}
}

// Handle queues evt. It never blocks: when the buffer is full the oldest
// event is dropped. Pass it to Engine.Subscribe.
func (s *ChannelSink) Handle(evt Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		select {
		case <-s.events:
			s.dropped.Add(1)
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}

// Events returns the receive side of the buffer.
func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// Pending returns the number of buffered events.
func (s *ChannelSink) Pending() int {
	return len(s.events)
}

// Dropped returns how many events were discarded because the buffer was
// full.
func (s *ChannelSink) Dropped() int64 {
	return s.dropped.Load()
}

// Drain returns every buffered event without blocking.
func (s *ChannelSink) Drain() []Event {
	var out []Event
	for {
		select {
		case evt := <-s.events:
			out = append(out, evt)
		default:
			return out
		}
	}
}

// Close stops accepting events.
func (s *ChannelSink) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Done is closed after Close.
func (s *ChannelSink) Done() <-chan struct{} {
	return s.done
}
