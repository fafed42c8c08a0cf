package document

// Scheduler coalesces redraw requests. At most one request is pending; any
// request made while one is pending is folded into it.
type Scheduler struct {
	ch chan struct{}
}

// NewScheduler returns a scheduler with nothing pending.
func NewScheduler() *Scheduler {
	return &Scheduler{ch: make(chan struct{}, 1)}
}

// Request marks a redraw as needed. It never blocks and reports false when
// the request was merged into one already pending.
func (s *Scheduler) Request() bool {
	select {
	case s.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// C delivers one value per pending redraw.
func (s *Scheduler) C() <-chan struct{} { return s.ch }

// Take consumes the pending request, if any.
func (s *Scheduler) Take() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}
