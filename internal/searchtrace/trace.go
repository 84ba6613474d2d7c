// Package searchtrace records the branches explored by the resolver's
// backtracking search. A Trace is passed explicitly through one search, so
// concurrent resolutions never share counters.
package searchtrace

import "fmt"

// Root is the id of the implicit attempt every top-level branch hangs off.
const Root = 0

// Outcome is the fate of one attempt.
type Outcome string

const (
	OutcomePending  Outcome = "pending"
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
)

// Attempt is one candidate tried for one component name.
type Attempt struct {
	ID        int
	Parent    int
	Depth     int
	Name      string
	Candidate string
	Outcome   Outcome
	Reason    string
}

// Trace accumulates attempts in the order they were made.
type Trace struct {
	attempts []Attempt
	maxDepth int
}

// New returns an empty trace.
func New() *Trace {
	return &Trace{}
}

// Begin records a new attempt under parent and returns its id.
func (t *Trace) Begin(parent, depth int, name, candidate string) int {
	id := len(t.attempts) + 1
	t.attempts = append(t.attempts, Attempt{
		ID:        id,
		Parent:    parent,
		Depth:     depth,
		Name:      name,
		Candidate: candidate,
		Outcome:   OutcomePending,
	})
	t.maxDepth = max(t.maxDepth, depth)
	return id
}

// Accept marks attempt id as part of the solution.
func (t *Trace) Accept(id int) {
	if a := t.get(id); a != nil {
		a.Outcome = OutcomeAccepted
	}
}

// Reject marks attempt id as failed because of err.
func (t *Trace) Reject(id int, err error) {
	if a := t.get(id); a != nil {
		a.Outcome = OutcomeRejected
		if err != nil {
			a.Reason = err.Error()
		}
	}
}

func (t *Trace) get(id int) *Attempt {
	if id <= 0 || id > len(t.attempts) {
		return nil
	}
	return &t.attempts[id-1]
}

// Branches returns the number of attempts made so far.
func (t *Trace) Branches() int { return len(t.attempts) }

// MaxDepth returns the deepest level any attempt reached.
func (t *Trace) MaxDepth() int { return t.maxDepth }

// Attempts returns a copy of the recorded attempts.
func (t *Trace) Attempts() []Attempt {
	out := make([]Attempt, len(t.attempts))
	copy(out, t.attempts)
	return out
}

func (t *Trace) String() string {
	return fmt.Sprintf("%d branches, depth %d", t.Branches(), t.MaxDepth())
}
