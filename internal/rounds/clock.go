package rounds

import "time"

// Clock abstracts wall-clock time and one-shot scheduling so round expiry is
// testable without real waiting.
type Clock interface {
	Now() time.Time
	// ScheduleAt runs fn once at t (immediately if t is past) and returns a
	// cancel func. Cancel after fire is a no-op.
	ScheduleAt(t time.Time, fn func()) (cancel func())
}

// SystemClock is the production Clock backed by the time package.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) ScheduleAt(t time.Time, fn func()) func() {
	timer := time.AfterFunc(time.Until(t), fn)
	return func() { timer.Stop() }
}
