package sync

import (
	"strings"
	"testing"

	"github.com/findolor/local-db-remote/pkg/checkpoint"
)

func TestFormatBlock(t *testing.T) {
	tests := []struct {
		value uint64
		want  string
	}{
		{value: 0, want: "0"},
		{value: 999, want: "999"},
		{value: 1000, want: "1,000"},
		{value: 123456, want: "123,456"},
		{value: 1234567890, want: "1,234,567,890"},
	}
	for _, tt := range tests {
		if got := FormatBlock(tt.value); got != tt.want {
			t.Errorf("FormatBlock(%d) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestPlanLinesWithCheckpoint(t *testing.T) {
	last := uint64(12345)
	lines := PlanLines("orderbook alpha (chain 1)", checkpoint.Plan{
		StorePath:   "/data/alpha.db",
		ArchivePath: "/data/alpha.db.tar.gz",
		LastBlock:   &last,
		StartBlock:  12346,
	})

	joined := strings.Join(lines, "\n")
	for _, fragment := range []string{
		"plan for orderbook alpha (chain 1)",
		"/data/alpha.db",
		"/data/alpha.db.tar.gz",
		"last synced block: 12,345",
		"next start block: 12,346",
	} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("Expected %q in plan output:\n%s", fragment, joined)
		}
	}
}

func TestPlanLinesFreshStart(t *testing.T) {
	lines := PlanLines("orderbook alpha (chain 1)", checkpoint.Plan{
		StorePath:   "/data/alpha.db",
		ArchivePath: "/data/alpha.db.tar.gz",
		StartBlock:  100,
	})

	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "last synced block: none") {
		t.Errorf("Expected absent last block rendered as none:\n%s", joined)
	}
}
