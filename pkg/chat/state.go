package chat

import "errors"

// ErrEmptyState is returned by RemoveLast on a state with no turns. Hitting
// it means a caller tried to undo an append it never made.
var ErrEmptyState = errors.New("conversation state is empty")

// State is the ordered turn log for one session. It is exclusively owned by
// that session and is not safe for concurrent mutation; callers serialize
// access per session.
//
// Append and RemoveLast are the only mutation primitives. The query pipeline
// uses them in two disciplines: a transient append/remove pair around the
// rewrite call, and an all-or-nothing user/model pair committed by the
// answer stage. Either way, no half-applied turn survives a pipeline run.
type State struct {
	turns []Turn
}

// NewState creates an empty conversation state.
func NewState() *State {
	return &State{}
}

// Append adds a turn to the end of the log.
func (s *State) Append(t Turn) {
	s.turns = append(s.turns, t)
}

// Snapshot returns a copy of the current turn sequence. Mutations made to
// the state after the call are not visible through the returned slice.
func (s *State) Snapshot() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// RemoveLast removes and returns the most recently appended turn. Callers
// only invoke it to undo their own immediately-prior append.
func (s *State) RemoveLast() (Turn, error) {
	if len(s.turns) == 0 {
		return Turn{}, ErrEmptyState
	}
	last := s.turns[len(s.turns)-1]
	s.turns = s.turns[:len(s.turns)-1]
	return last, nil
}

// Len reports the number of turns in the log.
func (s *State) Len() int {
	return len(s.turns)
}
