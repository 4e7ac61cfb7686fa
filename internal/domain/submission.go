package domain

import "fmt"

// SubmissionState is the lifecycle position of a report as seen by the
// acting user, from the unsent draft to its terminal states.
type SubmissionState string

const (
	StateDraft      SubmissionState = "draft"
	StateUploading  SubmissionState = "uploading"
	StatePersisting SubmissionState = "persisting"
	StateCreated    SubmissionState = "created"
	StateResolved   SubmissionState = "resolved"
	StateDeleted    SubmissionState = "deleted"
)

var submissionTransitions = map[SubmissionState][]SubmissionState{
	StateDraft:      {StateUploading, StatePersisting},
	StateUploading:  {StatePersisting},
	StatePersisting: {StateCreated},
	StateCreated:    {StateResolved, StateDeleted},
	StateResolved:   {StateDeleted},
	StateDeleted:    nil,
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s SubmissionState) CanTransitionTo(next SubmissionState) bool {
	for _, allowed := range submissionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition exists.
func (s SubmissionState) Terminal() bool {
	return len(submissionTransitions[s]) == 0
}

// StateOf maps a stored status onto the lifecycle.
func StateOf(status ReportStatus) SubmissionState {
	if status == ReportStatusResolved {
		return StateResolved
	}
	return StateCreated
}

// Submission tracks one report through its lifecycle and refuses
// transitions that the table above does not allow.
type Submission struct {
	state   SubmissionState
	history []SubmissionState
}

// NewSubmission starts a submission in the draft state.
func NewSubmission() *Submission {
	return &Submission{state: StateDraft, history: []SubmissionState{StateDraft}}
}

// ResumeSubmission starts tracking an already persisted report.
func ResumeSubmission(status ReportStatus) *Submission {
	st := StateOf(status)
	return &Submission{state: st, history: []SubmissionState{st}}
}

// State returns the current state.
func (s *Submission) State() SubmissionState {
	return s.state
}

// History returns every state visited, oldest first.
func (s *Submission) History() []SubmissionState {
	out := make([]SubmissionState, len(s.history))
	copy(out, s.history)
	return out
}

// Advance moves to next or returns ErrInvalidTransition.
func (s *Submission) Advance(next SubmissionState) error {
	if !s.state.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, next)
	}
	s.state = next
	s.history = append(s.history, next)
	return nil
}
