package version

import (
	"fmt"

	mm "github.com/Masterminds/semver/v3"
)

// Key is everything a Policy needs to order two candidates of the same component.
type Key struct {
	Long
	// Installed is true for the copy already present on the system.
	Installed bool
}

// Policy orders candidates of one component. Compare returns a negative
// number when a should be considered older than b.
type Policy interface {
	Name() string
	Compare(a, b Key) int
}

// Policy names accepted by ParsePolicy.
const (
	PolicyPromoteNewest = "promote-newest"
	PolicyStrict        = "strict"
	PolicySemver        = "semver"
)

// ParsePolicy returns the policy registered under name.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", PolicyPromoteNewest:
		return PromoteNewest{}, nil
	case PolicyStrict:
		return Strict{}, nil
	case PolicySemver:
		return Semver{}, nil
	}
	return nil, fmt.Errorf("version: unknown ordering policy %q", name)
}

// PromoteNewest is the build-promotion ordering: an experimental version or
// a zero build number means the candidate about to be installed wins over
// the one already installed, whatever the numbers say.
type PromoteNewest struct{}

func (PromoteNewest) Name() string { return PolicyPromoteNewest }

func (PromoteNewest) Compare(a, b Key) int {
	if a.IsExperimental() || b.IsExperimental() {
		if c := freshness(a, b); c != 0 {
			return c
		}
		return a.Long.Compare(b.Long)
	}
	if c := Compare(a.Version, b.Version); c != 0 {
		return c
	}
	if a.Build == 0 || b.Build == 0 {
		if c := freshness(a, b); c != 0 {
			return c
		}
	}
	return cmpInt(a.Build, b.Build)
}

// freshness ranks a not-yet-installed candidate above an installed one.
func freshness(a, b Key) int {
	switch {
	case a.Installed == b.Installed:
		return 0
	case a.Installed:
		return -1
	}
	return 1
}

// Strict compares version then build number and ignores installation state.
type Strict struct{}

func (Strict) Name() string { return PolicyStrict }

func (Strict) Compare(a, b Key) int {
	return a.Long.Compare(b.Long)
}

// Semver compares versions with semantic-versioning precedence, so
// pre-release tags sort before their release. Versions that do not parse as
// semver fall back to piecewise comparison.
type Semver struct{}

func (Semver) Name() string { return PolicySemver }

func (Semver) Compare(a, b Key) int {
	av, aerr := mm.NewVersion(a.Version)
	bv, berr := mm.NewVersion(b.Version)
	if aerr != nil || berr != nil {
		return a.Long.Compare(b.Long)
	}
	if c := av.Compare(bv); c != 0 {
		return c
	}
	return cmpInt(a.Build, b.Build)
}
