package paint

// Sample is one coalesced pointer observation: the latest client
// coordinates and modifier state seen since the previous frame.
type Sample struct {
	ClientX, ClientY float32
	Erase            bool
}

// ApplyFunc performs the per-frame work for one sample: one spatial
// query, one paint-engine update, one highlight update.
type ApplyFunc func(Sample)

// StrokeScheduler decouples pointer-move frequency from paint
// computation. Moves only record the latest sample; Tick, driven by
// whatever frame source the host has (display refresh, timer, or a
// test), applies at most one sample per call. Superseded intermediate
// positions are dropped on purpose: every frame reflects the latest
// known input, not every input individually.
type StrokeScheduler struct {
	apply ApplyFunc

	running    bool
	hasPending bool
	pending    Sample
}

// NewStrokeScheduler creates a scheduler that hands coalesced samples
// to apply.
func NewStrokeScheduler(apply ApplyFunc) *StrokeScheduler {
	return &StrokeScheduler{apply: apply}
}

// Running reports whether a stroke is active.
func (s *StrokeScheduler) Running() bool {
	return s.running
}

// Begin starts a stroke. Pending state from a previous stroke is
// discarded.
func (s *StrokeScheduler) Begin() {
	s.running = true
	s.hasPending = false
}

// Move records the latest pointer sample. Ignored while no stroke is
// active (a move event can race a cancel in the host's event queue).
func (s *StrokeScheduler) Move(sample Sample) {
	if !s.running {
		return
	}
	s.pending = sample
	s.hasPending = true
}

// Tick performs at most one brush evaluation. Returns true when a
// sample was applied, false for a no-op frame.
func (s *StrokeScheduler) Tick() bool {
	if !s.running || !s.hasPending {
		return false
	}
	sample := s.pending
	s.hasPending = false
	s.apply(sample)
	return true
}

// End finishes the stroke. Any sample not yet ticked is dropped; the
// stroke's final position was already applied on the last frame the
// host ticked.
func (s *StrokeScheduler) End() {
	s.running = false
	s.hasPending = false
}

// Cancel stops the stroke immediately. Identical to End; both must
// guarantee no further Tick performs work.
func (s *StrokeScheduler) Cancel() {
	s.End()
}
