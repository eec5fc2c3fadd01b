package filter

import (
	"testing"

	"fabric-archiver/internal/domain"
)

func ws(name, kind string) domain.Workspace {
	return domain.Workspace{ID: "id-" + name, DisplayName: name, Kind: kind}
}

func names(list []domain.Workspace) []string {
	out := make([]string, len(list))
	for i, w := range list {
		out[i] = w.DisplayName
	}
	return out
}

func TestParseEmptyMatchesEverything(t *testing.T) {
	e, warnings := Parse("")
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	input := []domain.Workspace{ws("A", "Workspace"), ws("B", "PersonalGroup")}
	got := e.Apply(input)
	if len(got) != len(input) {
		t.Errorf("Expected all %d workspaces, got %d", len(input), len(got))
	}
}

func TestParseWhitespaceOnlyMatchesEverything(t *testing.T) {
	e, warnings := Parse("   ")
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
	if !e.Matches(ws("Anything", "Workspace")) {
		t.Error("Expected whitespace-only filter to match everything")
	}
}

func TestStateEqActiveMatchesAll(t *testing.T) {
	// Discovery only returns active workspaces, so 'Active' always matches.
	e, warnings := Parse("state eq 'Active'")
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	input := []domain.Workspace{ws("One", "Workspace"), ws("Two", "PersonalGroup"), ws("Three", "Workspace")}
	got := e.Apply(input)
	if len(got) != 3 {
		t.Errorf("Expected all 3 workspaces for state eq 'Active', got %d", len(got))
	}
}

func TestStateEqInactiveMatchesNothing(t *testing.T) {
	e, _ := Parse("state eq 'Inactive'")

	input := []domain.Workspace{ws("One", "Workspace"), ws("Two", "Workspace")}
	got := e.Apply(input)
	if len(got) != 0 {
		t.Errorf("Expected zero matches for state eq 'Inactive', got %v", names(got))
	}
}

func TestTypeEq(t *testing.T) {
	e, warnings := Parse("type eq 'Workspace'")
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	input := []domain.Workspace{ws("A", "Workspace"), ws("B", "PersonalGroup"), ws("C", "Workspace")}
	got := e.Apply(input)
	if len(got) != 2 {
		t.Fatalf("Expected 2 matches, got %v", names(got))
	}
	if got[0].DisplayName != "A" || got[1].DisplayName != "C" {
		t.Errorf("Unexpected matches %v", names(got))
	}
}

func TestContainsName(t *testing.T) {
	e, _ := Parse("contains(name,'Test')")

	input := []domain.Workspace{
		ws("Test Workspace 1", "Workspace"),
		ws("Test Workspace 2", "Workspace"),
		ws("Inactive Workspace", "Workspace"),
	}
	got := e.Apply(input)
	if len(got) != 2 {
		t.Fatalf("Expected 2 matches, got %v", names(got))
	}
	if got[0].DisplayName != "Test Workspace 1" || got[1].DisplayName != "Test Workspace 2" {
		t.Errorf("Unexpected matches %v", names(got))
	}
}

func TestContainsIsCaseSensitive(t *testing.T) {
	e, _ := Parse("contains(name,'test')")
	if e.Matches(ws("Test Workspace", "Workspace")) {
		t.Error("Expected case-sensitive contains to reject 'Test Workspace'")
	}
}

func TestStartswithName(t *testing.T) {
	e, _ := Parse("startswith(name,'Prod')")

	if !e.Matches(ws("Prod Sales", "Workspace")) {
		t.Error("Expected 'Prod Sales' to match")
	}
	if e.Matches(ws("Sales Prod", "Workspace")) {
		t.Error("Expected 'Sales Prod' not to match")
	}
}

func TestEndswithName(t *testing.T) {
	e, _ := Parse("endswith(name,'Archive')")

	if !e.Matches(ws("Sales Archive", "Workspace")) {
		t.Error("Expected 'Sales Archive' to match")
	}
	if e.Matches(ws("Archive Sales", "Workspace")) {
		t.Error("Expected 'Archive Sales' not to match")
	}
}

func TestTwoClausesAnded(t *testing.T) {
	e, warnings := Parse("type eq 'Workspace' and contains(name,'Sales')")
	if len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}

	input := []domain.Workspace{
		ws("Sales EU", "Workspace"),
		ws("Sales US", "PersonalGroup"),
		ws("Marketing", "Workspace"),
	}
	got := e.Apply(input)
	if len(got) != 1 || got[0].DisplayName != "Sales EU" {
		t.Errorf("Expected only 'Sales EU', got %v", names(got))
	}
}

func TestTypeClauseExcludesRegardlessOfOthers(t *testing.T) {
	e, _ := Parse("state eq 'Active' and type eq 'Workspace'")

	if e.Matches(ws("Anything", "PersonalGroup")) {
		t.Error("Expected kind mismatch to exclude the workspace regardless of other clauses")
	}
	if !e.Matches(ws("Anything", "Workspace")) {
		t.Error("Expected kind match plus active state to pass")
	}
}

func TestMalformedClauseFailsOpenWithWarning(t *testing.T) {
	e, warnings := Parse("name like '%x%'")
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %v", warnings)
	}

	// fail-open: the broken clause must not shrink the result set
	input := []domain.Workspace{ws("A", "Workspace"), ws("B", "Workspace")}
	got := e.Apply(input)
	if len(got) != 2 {
		t.Errorf("Expected fail-open match-all, got %v", names(got))
	}
}

func TestMalformedClauseMixedWithValidOne(t *testing.T) {
	e, warnings := Parse("contains(name,'Test' and type eq 'Workspace'")
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning for the broken contains clause, got %v", warnings)
	}

	// the valid clause still applies
	if e.Matches(ws("Test", "PersonalGroup")) {
		t.Error("Expected valid type clause to still filter")
	}
	if !e.Matches(ws("whatever", "Workspace")) {
		t.Error("Expected matching kind to pass with broken clause ignored")
	}
}

func TestExpressionString(t *testing.T) {
	raw := "type eq 'Workspace'"
	e, _ := Parse(raw)
	if e.String() != raw {
		t.Errorf("Expected String() to return %q, got %q", raw, e.String())
	}
}
