package resolver

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/compsolve/internal/component"
)

var (
	ErrDowngrade      = errors.New("downgrade of a bonus component")
	ErrInvalidInstall = errors.New("invalid install")
	ErrBudgetExceeded = errors.New("search budget exceeded")
)

// DowngradeError reports that a component the user asked for would be
// replaced by an older version.
type DowngradeError struct {
	Installed *component.Component
	Target    *component.Component
}

func (e *DowngradeError) Error() string {
	return fmt.Sprintf("cannot downgrade %s to %s", e.Installed, e.Target)
}

func (e *DowngradeError) Unwrap() error { return ErrDowngrade }

// InvalidInstallError reports a requested component that ended up excluded
// from the install.
type InvalidInstallError struct {
	Component *component.Component
}

func (e *InvalidInstallError) Error() string {
	return fmt.Sprintf("requested component %s was excluded from the install", e.Component)
}

func (e *InvalidInstallError) Unwrap() error { return ErrInvalidInstall }

// NeededError reports that a component the user asked to remove is still
// required by another one.
type NeededError struct {
	Needed *component.Component
	By     *component.Component
	Err    error
}

func (e *NeededError) Error() string {
	return fmt.Sprintf("%s is needed by %s, cannot uninstall", e.Needed, e.By)
}

func (e *NeededError) Unwrap() error { return e.Err }

// BudgetError is returned when the search tried more branches than allowed.
type BudgetError struct {
	Budget int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("gave up after %d search branches", e.Budget)
}

func (e *BudgetError) Unwrap() error { return ErrBudgetExceeded }
