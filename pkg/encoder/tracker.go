package encoder

type positionProvider interface {
	Position() int64
}

// Tracker accumulates movement between polls, so that a control mode can
// zero its own odometer without resetting the shared encoder.
type Tracker struct {
	enc positionProvider

	doneFirstPoll bool
	last          int64

	accumulator int64
}

func NewTracker(enc positionProvider) *Tracker {
	return &Tracker{
		enc: enc,
	}
}

func (t *Tracker) Poll() {
	pos := t.enc.Position()
	if t.doneFirstPoll {
		t.accumulator += pos - t.last
	}
	t.last = pos
	t.doneFirstPoll = true
}

func (t *Tracker) Steps() int64 {
	return t.accumulator
}

func (t *Tracker) Zero() {
	t.accumulator = 0
}
