package component

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/compsolve/internal/version"
)

var ErrInvalidComponent = errors.New("invalid component")

// State is the transient installation state assigned during a resolution.
type State int

const (
	StateUnknown State = iota
	StateInstalled
	StateToInstall
)

func (s State) String() string {
	switch s {
	case StateInstalled:
		return "installed"
	case StateToInstall:
		return "to-install"
	}
	return "unknown"
}

// Component is one version of a named component.
//
// Components are read-only inputs to a resolution. The resolver only touches
// State and Bonus, and only as bookkeeping for the run in progress.
type Component struct {
	Name        string
	Version     string
	Build       int
	Description string

	Requires  []Constraint
	Conflicts []Constraint

	// Bonus marks a component whose presence is a goal of the resolution
	// rather than a transitive requirement.
	Bonus bool
	// AllowsMultipleVersions lets two versions of this component stay
	// resolved at once, as the running installer must while it upgrades itself.
	AllowsMultipleVersions bool

	State State
}

// ID identifies a component version uniquely, e.g. "Pkg-2.0-14".
func (c *Component) ID() string {
	return fmt.Sprintf("%s-%s-%d", c.Name, c.Version, c.Build)
}

// Long returns the version and build number of c.
func (c *Component) Long() version.Long {
	return version.Long{Version: c.Version, Build: c.Build}
}

// Key returns what an ordering policy needs to rank c against its siblings.
func (c *Component) Key() version.Key {
	return version.Key{Long: c.Long(), Installed: c.State == StateInstalled}
}

func (c *Component) String() string {
	return c.ID()
}

// Validate checks that c can take part in a resolution.
func (c *Component) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: component name is required", ErrInvalidComponent)
	}
	if c.Version == "" {
		return fmt.Errorf("%w: component %q: version is required", ErrInvalidComponent, c.Name)
	}
	if c.Build < 0 {
		return fmt.Errorf("%w: component %q: build number must not be negative", ErrInvalidComponent, c.Name)
	}
	for _, list := range [][]Constraint{c.Requires, c.Conflicts} {
		for _, con := range list {
			if con.Name == c.Name {
				return fmt.Errorf("%w: component %q: constraint %q refers to itself", ErrInvalidComponent, c.Name, con)
			}
		}
	}
	return nil
}
