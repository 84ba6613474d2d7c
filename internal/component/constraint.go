package component

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/compsolve/internal/version"
)

// AnyVersion is the reserved constraint version meaning "the component as a
// whole, whatever its version". It is mostly used by conflicts.
const AnyVersion = "0.0.1"

// OptionalPrefix marks a dependency that does not fail the resolution when
// nothing satisfies it.
const OptionalPrefix = "Opt:"

var ErrInvalidConstraint = errors.New("invalid constraint")

// Operator is a version relation.
type Operator string

const (
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "="
	OpGreaterEqual Operator = ">="
	OpGreater      Operator = ">"
	OpNotEqual     Operator = "!="
)

// operators is ordered longest first so "<=" is never read as "<".
var operators = []Operator{OpNotEqual, OpGreaterEqual, OpLessEqual, OpLess, OpGreater, OpEqual}

// holds reports whether the relation holds for a comparison result.
func (op Operator) holds(cmp int) bool {
	switch op {
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpEqual:
		return cmp == 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpGreater:
		return cmp > 0
	case OpNotEqual:
		return cmp != 0
	}
	return false
}

// Constraint is a parsed `[Opt:]Name<op>Version` expression.
type Constraint struct {
	Name     string
	Op       Operator
	Version  string
	Optional bool
}

const operatorChars = "<>=!"

// ParseConstraint parses raw. A bare name without an operator matches any
// version of that component.
func ParseConstraint(raw string) (Constraint, error) {
	s := strings.TrimSpace(raw)
	var c Constraint
	if rest, ok := strings.CutPrefix(s, OptionalPrefix); ok {
		c.Optional = true
		s = strings.TrimSpace(rest)
	}

	for _, op := range operators {
		idx := strings.Index(s, string(op))
		if idx < 0 {
			continue
		}
		c.Name = strings.TrimSpace(s[:idx])
		c.Op = op
		c.Version = strings.TrimSpace(s[idx+len(op):])
		if c.Name == "" || c.Version == "" || strings.ContainsAny(c.Name+c.Version, operatorChars) {
			return Constraint{}, fmt.Errorf("%w: %q", ErrInvalidConstraint, raw)
		}
		return c, nil
	}

	if s == "" || strings.ContainsAny(s, operatorChars) {
		return Constraint{}, fmt.Errorf("%w: %q", ErrInvalidConstraint, raw)
	}
	c.Name = s
	c.Op = OpGreaterEqual
	c.Version = AnyVersion
	return c, nil
}

// MustParseConstraint is like ParseConstraint but panics on error.
func MustParseConstraint(raw string) Constraint {
	c, err := ParseConstraint(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseConstraints parses every entry of raw.
func ParseConstraints(raw []string) ([]Constraint, error) {
	out := make([]Constraint, 0, len(raw))
	for _, r := range raw {
		c, err := ParseConstraint(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Matches reports whether candidate satisfies c.
func (c Constraint) Matches(candidate *Component) bool {
	if candidate == nil || candidate.Name != c.Name {
		return false
	}
	if c.Version == AnyVersion {
		return true
	}
	return c.Op.holds(version.Compare(candidate.Version, c.Version))
}

func (c Constraint) String() string {
	prefix := ""
	if c.Optional {
		prefix = OptionalPrefix
	}
	return prefix + c.Name + string(c.Op) + c.Version
}
