package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-01"

	info := Get()
	if info.Version != "v1.2.3" || info.Commit != "abc123" || info.Date != "2026-01-01" {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.Contains(String(), "v1.2.3") {
		t.Errorf("String() = %q, want version", String())
	}
	if !strings.Contains(Template(), "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
}
