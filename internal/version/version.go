package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Experimental is the sentinel version that always sorts after any numbered version.
const Experimental = "e.x.p"

// Compare compares two dot-separated version strings piecewise and returns a
// negative number, zero or a positive number when v1 is older than, equal to
// or newer than v2.
//
// Numeric segments compare numerically, anything else lexically. Missing
// trailing segments count as zero, so "1.0" equals "1.0.0".
func Compare(v1, v2 string) int {
	if v1 == v2 {
		return 0
	}
	if v1 == Experimental {
		return 1
	}
	if v2 == Experimental {
		return -1
	}

	a := strings.Split(v1, ".")
	b := strings.Split(v2, ".")
	n := max(len(a), len(b))
	for i := 0; i < n; i++ {
		if c := compareSegment(segment(a, i), segment(b, i)); c != 0 {
			return c
		}
	}
	return 0
}

func segment(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return "0"
}

func compareSegment(a, b string) int {
	ai, aerr := strconv.ParseUint(a, 10, 64)
	bi, berr := strconv.ParseUint(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		return cmpInt(ai, bi)
	case aerr == nil:
		// numbers sort before words: 1.0 < 1.rc
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}

func cmpInt[T int | uint64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Long is a version string paired with a build number.
type Long struct {
	Version string
	Build   int
}

// Compare orders l and o by version first and build number second.
func (l Long) Compare(o Long) int {
	if c := Compare(l.Version, o.Version); c != 0 {
		return c
	}
	return cmpInt(l.Build, o.Build)
}

// IsExperimental reports whether l carries the experimental sentinel.
func (l Long) IsExperimental() bool {
	return l.Version == Experimental
}

func (l Long) String() string {
	return fmt.Sprintf("%s-%d", l.Version, l.Build)
}
