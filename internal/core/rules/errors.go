package rules

import (
	"fmt"
	"strings"
)

// MultipleDefaultsError reports more than one entry without a prefix.
type MultipleDefaultsError struct {
	// Candidates are the unmarked entries, in input order.
	Candidates []string
	// Raw is the filter text the candidates came from.
	Raw string
}

func (e *MultipleDefaultsError) Error() string {
	quoted := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf("multiple default filters found (found [%s] in %q)",
		strings.Join(quoted, ", "), e.Raw)
}

// UnknownSeverityError reports an entry whose level text names no level.
type UnknownSeverityError struct {
	// Entry is the trimmed entry, e.g. "app/db=Loud".
	Entry string
	// Text is the level part of the entry, e.g. "Loud".
	Text string
}

func (e *UnknownSeverityError) Error() string {
	return fmt.Sprintf("unknown level %q in filter %q", e.Text, e.Entry)
}
