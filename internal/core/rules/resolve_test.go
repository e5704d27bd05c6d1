package rules

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xzzpig/levelgate"
)

func TestHasPrefix(t *testing.T) {
	tests := []struct {
		prefix, path string
		want         bool
	}{
		{"", "", true},
		{"", "anything", true},
		{"a::b", "a::b", true},
		{"a::b", "a::b::c", true},
		{"a::b", "a::x", false},
		{"a::b::c", "a::b", false},
		{"abc", "abd", false},
		{"app", "apple", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HasPrefix(tt.prefix, tt.path), "HasPrefix(%q, %q)", tt.prefix, tt.path)
	}
}

func TestResolve_LongestPrefixWins(t *testing.T) {
	set := MustCompile("a=Warn; a::b=Trace")

	res := set.Resolve("a::b::c")
	assert.Equal(t, levelgate.Trace, res.Level)
	require.NotNil(t, res.Rule)
	assert.Equal(t, "a::b", res.Rule.Prefix)
	assert.Equal(t, "a::b::c", res.Path)

	assert.Equal(t, levelgate.Warn, set.Level("a::x"))
}

func TestResolve_NoMatchUsesDefault(t *testing.T) {
	set := MustCompile("a::b=Trace")
	res := set.Resolve("a::x")
	assert.Equal(t, levelgate.Trace, res.Level)
	assert.Nil(t, res.Rule)

	set = MustCompile("Info; a::b=Off")
	assert.Equal(t, levelgate.Info, set.Level("a::x"))
}

func TestResolve_EmptyConfig(t *testing.T) {
	set := MustCompile("")
	for _, path := range []string{"", "a", "github.com/acme/app/internal/db"} {
		assert.Equal(t, levelgate.Trace, set.Level(path))
	}
}

func TestResolve_EmptyPrefixMatchesEverything(t *testing.T) {
	set := MustCompile("=Error")
	for _, path := range []string{"", "x", "a::b::c"} {
		assert.Equal(t, levelgate.Error, set.Level(path), path)
	}

	set = MustCompile("=Error; a::b=Debug")
	assert.Equal(t, levelgate.Debug, set.Level("a::b::c"))
	assert.Equal(t, levelgate.Error, set.Level("a::c"))
}

func TestResolve_PrefixEdgeCases(t *testing.T) {
	set := MustCompile("Warn; a::b=Debug")
	assert.Equal(t, levelgate.Debug, set.Level("a::b"))
	assert.Equal(t, levelgate.Warn, set.Level("a::"))
	assert.Equal(t, levelgate.Warn, set.Level("a"))
}

func TestResolve_RoundTrip(t *testing.T) {
	set, err := Compile("Warn; problem::module=Trace; problem::module::safe=Error; other_crate=Off")
	require.NoError(t, err)

	tests := []struct {
		path string
		want levelgate.Level
	}{
		{"std::mem", levelgate.Warn},
		{"problem", levelgate.Warn},
		{"problem::other", levelgate.Warn},
		{"problem::module", levelgate.Trace},
		{"problem::module::submodule", levelgate.Trace},
		{"problem::module::safe", levelgate.Error},
		{"problem::module::safe::submodule", levelgate.Error},
		{"other_crate", levelgate.Off},
		{"other_crate::submodule", levelgate.Off},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, set.Level(tt.path))
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	set := MustCompile("Info; a=Warn; a::b=Trace")
	first := set.Resolve("a::b::c")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, set.Resolve("a::b::c"))
	}
}

func TestResolve_Concurrent(t *testing.T) {
	set := MustCompile("Info; core/db=Debug; core/scheduler=Warn; watcher=Error")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, path := range []string{"core/db/query", "core/scheduler/task", "watcher/fs", "api"} {
				_ = set.Level(path)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, levelgate.Debug, set.Level("core/db/query"))
	assert.Equal(t, levelgate.Warn, set.Level("core/scheduler/task"))
	assert.Equal(t, levelgate.Error, set.Level("watcher/fs"))
	assert.Equal(t, levelgate.Info, set.Level("api"))
}

func TestCascade(t *testing.T) {
	set := MustCompile("Info; a=Warn; a::b=Trace; x=Off")
	steps := set.Cascade("a::b::c")
	require.Len(t, steps, 3)

	assert.Equal(t, "a::b", steps[0].Rule.Prefix)
	assert.True(t, steps[0].Matches)
	assert.True(t, steps[0].Decisive)

	// "a" and "x" have equal length, input order kept
	assert.Equal(t, "a", steps[1].Rule.Prefix)
	assert.True(t, steps[1].Matches)
	assert.False(t, steps[1].Decisive)

	assert.Equal(t, "x", steps[2].Rule.Prefix)
	assert.False(t, steps[2].Matches)

	for _, s := range set.Cascade("zzz") {
		assert.False(t, s.Decisive)
	}
}
