package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal", "1.2.3", "1.2.3", 0},
		{"missing segments are zero", "1.0", "1.0.0", 0},
		{"numeric not lexical", "1.10", "1.9", 1},
		{"shorter is older", "1.2", "1.2.1", -1},
		{"words after numbers", "1.rc", "1.0", 1},
		{"words lexical", "1.alpha", "1.beta", -1},
		{"experimental newest", Experimental, "99.0", 1},
		{"experimental vs itself", Experimental, Experimental, 0},
		{"numbered below experimental", "2", Experimental, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
			assert.Equal(t, -tt.want, Compare(tt.b, tt.a), "comparison must be antisymmetric")
		})
	}
}

func TestLongCompare(t *testing.T) {
	assert.Equal(t, -1, Long{"1.0", 5}.Compare(Long{"1.0", 6}))
	assert.Equal(t, 1, Long{"1.1", 1}.Compare(Long{"1.0", 9}))
	assert.Equal(t, 0, Long{"1.0", 3}.Compare(Long{"1.0.0", 3}))
	assert.Equal(t, "1.0-3", Long{"1.0", 3}.String())
}

func TestPromoteNewest(t *testing.T) {
	p := PromoteNewest{}
	installed := func(v string, b int) Key { return Key{Long: Long{v, b}, Installed: true} }
	fresh := func(v string, b int) Key { return Key{Long: Long{v, b}} }

	t.Run("numbers decide when builds are set", func(t *testing.T) {
		assert.Equal(t, 1, p.Compare(installed("1.0", 7), fresh("1.0", 6)))
		assert.Equal(t, -1, p.Compare(installed("1.0", 7), fresh("1.1", 1)))
	})

	t.Run("zero build prefers the fresh candidate", func(t *testing.T) {
		assert.Equal(t, 1, p.Compare(fresh("1.0", 0), installed("1.0", 7)))
		assert.Equal(t, -1, p.Compare(installed("1.0", 0), fresh("1.0", 7)))
	})

	t.Run("zero build does not override version", func(t *testing.T) {
		assert.Equal(t, -1, p.Compare(fresh("1.0", 0), installed("2.0", 7)))
	})

	t.Run("experimental prefers the fresh candidate", func(t *testing.T) {
		assert.Equal(t, 1, p.Compare(fresh("3.0", 1), installed(Experimental, 4)))
		assert.Equal(t, 1, p.Compare(fresh(Experimental, 1), installed(Experimental, 4)))
	})

	t.Run("same freshness falls back to numbers", func(t *testing.T) {
		assert.Equal(t, 1, p.Compare(fresh(Experimental, 0), fresh("3.0", 0)))
		assert.Equal(t, -1, p.Compare(fresh("1.0", 0), fresh("1.0", 2)))
	})
}

func TestStrictIgnoresState(t *testing.T) {
	a := Key{Long: Long{"1.0", 0}}
	b := Key{Long: Long{"1.0", 7}, Installed: true}
	assert.Equal(t, -1, Strict{}.Compare(a, b))
}

func TestSemver(t *testing.T) {
	s := Semver{}
	key := func(v string) Key { return Key{Long: Long{Version: v}} }

	assert.Equal(t, -1, s.Compare(key("1.0.0-rc.1"), key("1.0.0")))
	assert.Equal(t, 1, s.Compare(key("1.10.0"), key("1.9.0")))
	// not semver: piecewise fallback
	assert.Equal(t, 1, s.Compare(key("1.2.3.4"), key("1.2.3.3")))
}

func TestParsePolicy(t *testing.T) {
	for name, want := range map[string]string{
		"":               PolicyPromoteNewest,
		"promote-newest": PolicyPromoteNewest,
		"strict":         PolicyStrict,
		"semver":         PolicySemver,
	} {
		p, err := ParsePolicy(name)
		if assert.NoError(t, err) {
			assert.Equal(t, want, p.Name())
		}
	}

	_, err := ParsePolicy("newest-first")
	assert.ErrorContains(t, err, "unknown ordering policy")
}
