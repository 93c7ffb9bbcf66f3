package buildinfo

import (
	"strings"
	"testing"
)

func TestBuildStrings(t *testing.T) {
	old := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = old[0], old[1], old[2] })
	Version, Commit, Date = "v1.2.3", "abc123", "2026-10-01"

	if got := UserAgent(); got != "brewtower/v1.2.3" {
		t.Errorf("UserAgent() = %q", got)
	}
	if got := Template(); got != "{{.Name}} v1.2.3 (abc123, 2026-10-01)\n" {
		t.Errorf("Template() = %q", got)
	}
	for _, want := range []string{"version: v1.2.3", "commit: abc123", "built: 2026-10-01"} {
		if !strings.Contains(String(), want) {
			t.Errorf("String() missing %q", want)
		}
	}
}
