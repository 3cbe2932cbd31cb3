package codegen

import "strings"

// Fallback tokens used when a referenced master (or its acronym) is absent.
// A lookup miss is a soft condition: code generation never blocks on gaps
// in the administrative data.
const (
	FallbackOrg  = "ORG"
	FallbackItem = "ITEM"
	FallbackLoc  = "LOC"
)

// Segment is the outcome of a reference lookup, kept as an explicit variant
// (resolved vs. unresolved) so the fallback policy stays auditable.
type Segment struct {
	code     string
	resolved bool
}

// Resolved builds a segment from a looked-up acronym or name.
func Resolved(code string) Segment {
	return Segment{code: strings.ToUpper(code), resolved: true}
}

// Unresolved marks a reference that was absent or not found.
func Unresolved() Segment {
	return Segment{}
}

func (s Segment) orFallback(fallback string) string {
	if s.resolved && s.code != "" {
		return s.code
	}
	return fallback
}

// ComposePrefix builds the deterministic, non-sequential part of a project
// code: TEAM/FY/ORG/ITEM/LOC. The team name is uppercased verbatim; it is
// not trimmed or otherwise normalized, so two teams that differ only in
// whitespace allocate from different sequence partitions.
func ComposePrefix(teamName, fyToken string, org, item, loc Segment) string {
	return strings.Join([]string{
		strings.ToUpper(teamName),
		fyToken,
		org.orFallback(FallbackOrg),
		item.orFallback(FallbackItem),
		loc.orFallback(FallbackLoc),
	}, "/")
}
