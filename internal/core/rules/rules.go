// Package rules compiles filter text into an ordered rule set and resolves
// module paths against it.
package rules

import (
	"cmp"
	"slices"
	"strings"

	"go.uber.org/multierr"

	"github.com/xzzpig/levelgate"
)

const (
	// Separator splits filter text into entries.
	Separator = ";"
	// Assign separates a prefix from its level inside an entry.
	Assign = "="
)

// Rule caps every module path starting with Prefix at Level.
type Rule struct {
	Prefix string
	Level  levelgate.Level
}

func (r Rule) String() string {
	return r.Prefix + Assign + r.Level.String()
}

// RuleSet is the compiled form of a filter text. Rules are ordered longest
// prefix first; equal lengths keep their input order.
type RuleSet struct {
	Rules []Rule
	// Default applies when no rule matches.
	Default levelgate.Level
	// Defaulted is true when Default came from the filter text rather than
	// the MostVerbose fallback.
	Defaulted bool
	// Raw is the text the set was compiled from.
	Raw string
}

// Entries splits raw into trimmed, non-empty entries.
func Entries(raw string) []string {
	var entries []string
	for _, part := range strings.Split(raw, Separator) {
		if part = strings.TrimSpace(part); part != "" {
			entries = append(entries, part)
		}
	}
	return entries
}

// Compile parses raw filter text. More than one unmarked entry yields a
// *MultipleDefaultsError; unknown level names yield one *UnknownSeverityError
// per offending entry, combined with multierr.
func Compile(raw string) (*RuleSet, error) {
	var prefixed, defaults []string
	for _, entry := range Entries(raw) {
		if strings.Contains(entry, Assign) {
			prefixed = append(prefixed, entry)
		} else {
			defaults = append(defaults, entry)
		}
	}

	if len(defaults) > 1 {
		return nil, &MultipleDefaultsError{Candidates: defaults, Raw: raw}
	}

	set := &RuleSet{Default: levelgate.MostVerbose, Raw: raw}
	var errs error
	if len(defaults) == 1 {
		level, err := levelgate.ParseLevel(defaults[0])
		if err != nil {
			errs = multierr.Append(errs, &UnknownSeverityError{Entry: defaults[0], Text: defaults[0]})
		} else {
			set.Default = level
			set.Defaulted = true
		}
	}

	set.Rules = make([]Rule, 0, len(prefixed))
	for _, entry := range prefixed {
		prefix, text, _ := strings.Cut(entry, Assign)
		prefix = strings.TrimSpace(prefix)
		text = strings.TrimSpace(text)
		level, err := levelgate.ParseLevel(text)
		if err != nil {
			errs = multierr.Append(errs, &UnknownSeverityError{Entry: entry, Text: text})
			continue
		}
		set.Rules = append(set.Rules, Rule{Prefix: prefix, Level: level})
	}
	if errs != nil {
		return nil, errs
	}

	slices.SortStableFunc(set.Rules, func(a, b Rule) int {
		return cmp.Compare(len(b.Prefix), len(a.Prefix))
	})
	return set, nil
}

// MustCompile is like Compile but panics on error. Meant for tests and
// package-level fixtures.
func MustCompile(raw string) *RuleSet {
	set, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return set
}

// Duplicates returns the prefixes that occur in more than one rule, in rule
// order. Only the first of each takes effect.
func (s *RuleSet) Duplicates() []string {
	seen := make(map[string]int, len(s.Rules))
	var dups []string
	for _, r := range s.Rules {
		seen[r.Prefix]++
		if seen[r.Prefix] == 2 {
			dups = append(dups, r.Prefix)
		}
	}
	return dups
}

// String renders the set back into canonical filter text, default first.
func (s *RuleSet) String() string {
	parts := make([]string, 0, len(s.Rules)+1)
	if s.Defaulted {
		parts = append(parts, s.Default.String())
	}
	for _, r := range s.Rules {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, Separator+" ")
}
