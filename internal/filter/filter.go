// Package filter implements the workspace selection expression: a small,
// case-sensitive predicate subset combined only with "and".
//
// Recognized clauses:
//
//	state eq 'Active'
//	type eq 'Workspace'
//	contains(name,'substr')
//	startswith(name,'prefix')
//	endswith(name,'suffix')
//
// Unrecognized or malformed clauses are skipped fail-open and reported as
// warnings: on ambiguous input this evaluator prefers matching more
// workspaces over silently archiving nothing.
package filter

import (
	"regexp"
	"strings"

	"fabric-archiver/internal/domain"
)

// Discovery only ever returns reachable workspaces, so "state" has exactly
// one value that can match. A filter asking for any other state matches no
// workspace at all; this is a documented contract of the discovery source,
// not a bug.
const activeState = "Active"

var (
	stateRe      = regexp.MustCompile(`^state eq '([^']*)'$`)
	typeRe       = regexp.MustCompile(`^type eq '([^']*)'$`)
	containsRe   = regexp.MustCompile(`^contains\(name,\s*'([^']*)'\)$`)
	startswithRe = regexp.MustCompile(`^startswith\(name,\s*'([^']*)'\)$`)
	endswithRe   = regexp.MustCompile(`^endswith\(name,\s*'([^']*)'\)$`)
)

type clause func(domain.Workspace) bool

// Expression is a parsed filter. The zero value (no clauses) matches every
// workspace.
type Expression struct {
	raw     string
	clauses []clause
}

// Parse splits expr on "and" and keeps every clause it recognizes.
// It never fails: clauses it cannot parse come back as warnings and are
// excluded from matching.
func Parse(expr string) (Expression, []string) {
	e := Expression{raw: expr}

	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return e, nil
	}

	var warnings []string
	for _, part := range strings.Split(trimmed, " and ") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, ok := parseClause(part)
		if !ok {
			warnings = append(warnings, "unrecognized filter clause \""+part+"\" ignored (matching everything for it)")
			continue
		}
		e.clauses = append(e.clauses, c)
	}
	return e, warnings
}

func parseClause(part string) (clause, bool) {
	if m := stateRe.FindStringSubmatch(part); m != nil {
		want := m[1]
		return func(domain.Workspace) bool { return want == activeState }, true
	}
	if m := typeRe.FindStringSubmatch(part); m != nil {
		want := m[1]
		return func(w domain.Workspace) bool { return w.Kind == want }, true
	}
	if m := containsRe.FindStringSubmatch(part); m != nil {
		sub := m[1]
		return func(w domain.Workspace) bool { return strings.Contains(w.DisplayName, sub) }, true
	}
	if m := startswithRe.FindStringSubmatch(part); m != nil {
		prefix := m[1]
		return func(w domain.Workspace) bool { return strings.HasPrefix(w.DisplayName, prefix) }, true
	}
	if m := endswithRe.FindStringSubmatch(part); m != nil {
		suffix := m[1]
		return func(w domain.Workspace) bool { return strings.HasSuffix(w.DisplayName, suffix) }, true
	}
	return nil, false
}

// Matches reports whether w satisfies every recognized clause.
func (e Expression) Matches(w domain.Workspace) bool {
	for _, c := range e.clauses {
		if !c(w) {
			return false
		}
	}
	return true
}

// Apply returns the workspaces matching the expression, preserving input
// order.
func (e Expression) Apply(workspaces []domain.Workspace) []domain.Workspace {
	if len(e.clauses) == 0 {
		return workspaces
	}
	out := make([]domain.Workspace, 0, len(workspaces))
	for _, w := range workspaces {
		if e.Matches(w) {
			out = append(out, w)
		}
	}
	return out
}

// String returns the raw expression the filter was parsed from.
func (e Expression) String() string { return e.raw }
