package forms

import (
	"fmt"
	"time"
)

// SavedIndicatorDuration is how long the "saved" affordance stays visible.
const SavedIndicatorDuration = 3 * time.Second

// SavedIndicatorClearPath answers with an empty body; the indicator swaps
// itself out by requesting it after SavedIndicatorDuration.
const SavedIndicatorClearPath = "/api/v1/feedback/clear"

type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Lifecycle tracks one submission of one form instance.
//
// Idle -> Submitting -> Succeeded | Failed. Failed keeps the draft and the
// error message and allows another submit.
type Lifecycle struct {
	state   State
	message string
}

func (l *Lifecycle) State() State {
	return l.state
}

func (l *Lifecycle) Message() string {
	return l.message
}

func (l *Lifecycle) Begin() error {
	if l.state == Submitting {
		return ErrAlreadySubmitting
	}
	l.state = Submitting
	l.message = ""
	return nil
}

func (l *Lifecycle) Succeed() {
	l.state = Succeeded
	l.message = ""
}

func (l *Lifecycle) Fail(message string) {
	l.state = Failed
	l.message = message
}

// Reset returns a finished lifecycle to Idle so the form can be resubmitted.
func (l *Lifecycle) Reset() {
	if l.state == Submitting {
		return
	}
	l.state = Idle
}
