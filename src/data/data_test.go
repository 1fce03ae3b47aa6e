package data

import (
	"testing"
	"time"

	"github.com/etbot-dev/etbot/src/senate"
)

func TestParseIndex(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{" 42 ", 42, false},
		{"0", 0, false},
		{"-1", 0, true},
		{"forty", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseIndex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseIndex(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseIndex(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDSN(t *testing.T) {
	got := normalizeDSN("user:pw@tcp(db:3306)/etbot")
	want := "user:pw@tcp(db:3306)/etbot?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci"
	if got != want {
		t.Fatalf("normalizeDSN = %q\nwant %q", got, want)
	}
	kept := "user@/etbot?charset=latin1&parseTime=false"
	if got := normalizeDSN(kept); got != kept {
		t.Fatalf("explicit params rewritten: %q", got)
	}
}

func TestSettingsCache(t *testing.T) {
	SetCachedSetting("senator_role_id", "123")
	if got := GetSetting("senator_role_id"); got != "123" {
		t.Fatalf("GetSetting = %q", got)
	}
	if got := GetSetting("missing"); got != "" {
		t.Fatalf("missing setting = %q", got)
	}
}

func TestEventValues(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ev := senate.Event{Type: "pass", Bill: 42, ActorID: "7", Status: senate.StatusPassed, Votes: "4 ✅", At: at}
	v := eventValues(ev)
	if v["type"] != "pass" || v["bill"] != "42" || v["actor"] != "7" || v["status"] != "passed" {
		t.Fatalf("unexpected values %v", v)
	}
	if v["at"] != "2026-03-01T12:00:00Z" || v["votes"] != "4 ✅" {
		t.Fatalf("unexpected values %v", v)
	}
	if _, ok := eventValues(senate.Event{Type: "created"})["votes"]; ok {
		t.Fatal("empty tally should be omitted")
	}
}
