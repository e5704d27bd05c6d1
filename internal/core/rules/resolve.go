package rules

import "github.com/xzzpig/levelgate"

// HasPrefix reports whether prefix is a byte-wise prefix of path. The empty
// prefix matches every path.
func HasPrefix(prefix, path string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if prefix[i] != path[i] {
			return false
		}
	}
	return true
}

// Resolution is the outcome of resolving one module path.
type Resolution struct {
	Path  string
	Level levelgate.Level
	// Rule is the rule that decided Level, nil when the default applied.
	Rule *Rule
}

// Resolve tests the rules in order and returns the first match, falling back
// to the default.
func (s *RuleSet) Resolve(path string) Resolution {
	for i := range s.Rules {
		if HasPrefix(s.Rules[i].Prefix, path) {
			rule := s.Rules[i]
			return Resolution{Path: path, Level: rule.Level, Rule: &rule}
		}
	}
	return Resolution{Path: path, Level: s.Default}
}

// Level is Resolve(path).Level.
func (s *RuleSet) Level(path string) levelgate.Level {
	return s.Resolve(path).Level
}

// Step is one test of the resolution cascade.
type Step struct {
	Rule     Rule
	Matches  bool
	Decisive bool
}

// Cascade returns every rule in test order, marking which ones match path and
// which one decides. When no step is decisive the default applies.
func (s *RuleSet) Cascade(path string) []Step {
	steps := make([]Step, len(s.Rules))
	decided := false
	for i, r := range s.Rules {
		matches := HasPrefix(r.Prefix, path)
		steps[i] = Step{Rule: r, Matches: matches, Decisive: matches && !decided}
		if matches {
			decided = true
		}
	}
	return steps
}
