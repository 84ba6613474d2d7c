package depgraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/compsolve/internal/component"
)

var (
	ErrConflict    = errors.New("component conflict")
	ErrUnsatisfied = errors.New("unsatisfied dependency")
	ErrCycle       = errors.New("dependency cycle")
)

// ConflictError reports two mutually exclusive components that were both resolved.
type ConflictError struct {
	// Component declared the conflict on Other.
	Component  *component.Component
	Other      *component.Component
	Constraint component.Constraint
}

func (e *ConflictError) Error() string {
	a, b := e.Component, e.Other
	aInstalled := a.State == component.StateInstalled
	bInstalled := b.State == component.StateInstalled
	switch {
	case aInstalled && bInstalled:
		return fmt.Sprintf("installed components %s and %s conflict (%s)", a, b, e.Constraint)
	case aInstalled:
		return fmt.Sprintf("cannot install %s: it conflicts with installed %s (%s)", b, a, e.Constraint)
	case bInstalled:
		return fmt.Sprintf("cannot install %s: it conflicts with installed %s (%s)", a, b, e.Constraint)
	}
	return fmt.Sprintf("cannot install both %s and %s: they conflict (%s)", a, b, e.Constraint)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// UnsatisfiedDependencyError reports a required constraint nothing in the graph matches.
type UnsatisfiedDependencyError struct {
	Component  *component.Component
	Constraint component.Constraint
}

func (e *UnsatisfiedDependencyError) Error() string {
	return fmt.Sprintf("%s requires %s, which is not available", e.Component, e.Constraint)
}

func (e *UnsatisfiedDependencyError) Unwrap() error { return ErrUnsatisfied }

// CycleError reports a component that transitively depends on itself.
type CycleError struct {
	Component *component.Component
	Path      []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("dependency cycle involving %s", e.Component)
	}
	return fmt.Sprintf("dependency cycle involving %s: %s", e.Component, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }
