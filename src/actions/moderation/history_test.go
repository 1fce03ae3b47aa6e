package moderation

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/etbot-dev/etbot/src/actions/moderation/data"
)

// fakeStore serves one channel of messages with IDs "1001".."1000+n",
// authored alternately by "a" and "b" unless overridden.
type fakeStore struct {
	msgs      []*discordgo.Message // oldest first
	calls     int
	bulk      [][]string
	single    []string
	bulkErr   error
	deleteErr map[string]error
}

func newFakeStore(n int, now time.Time) *fakeStore {
	f := &fakeStore{deleteErr: map[string]error{}}
	for i := 1; i <= n; i++ {
		author := "a"
		if i%2 == 0 {
			author = "b"
		}
		f.msgs = append(f.msgs, &discordgo.Message{
			ID:        fmt.Sprintf("%d", 1000+i),
			Author:    &discordgo.User{ID: author},
			Timestamp: now.Add(-time.Duration(n-i) * time.Minute),
		})
	}
	return f
}

func (f *fakeStore) index(id string) int {
	for i, m := range f.msgs {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// ChannelMessages returns newest first, like Discord, for both cursors.
func (f *fakeStore) ChannelMessages(_ string, limit int, beforeID, afterID, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.calls++
	lo, hi := 0, len(f.msgs)
	switch {
	case beforeID != "":
		hi = f.index(beforeID)
		if lo < hi-limit {
			lo = hi - limit
		}
	case afterID != "":
		lo = f.index(afterID) + 1
		if hi > lo+limit {
			hi = lo + limit
		}
	default:
		if lo < hi-limit {
			lo = hi - limit
		}
	}
	var page []*discordgo.Message
	for i := hi - 1; i >= lo; i-- {
		page = append(page, f.msgs[i])
	}
	return page, nil
}

func (f *fakeStore) ChannelMessagesBulkDelete(_ string, ids []string, _ ...discordgo.RequestOption) error {
	if f.bulkErr != nil {
		return f.bulkErr
	}
	f.bulk = append(f.bulk, append([]string(nil), ids...))
	return nil
}

func (f *fakeStore) ChannelMessageDelete(_ string, id string, _ ...discordgo.RequestOption) error {
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	f.single = append(f.single, id)
	return nil
}

func ids(msgs []*discordgo.Message) string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return strings.Join(out, ",")
}

func TestScanBefore(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		before      string
		limit       int
		keep        func(*discordgo.Message) bool
		wantCount   int
		wantFirst   string
		wantLast    string
		wantFetches int
	}{
		{"latest five", 250, "", 5, nil, 5, "1250", "1246", 1},
		{"across pages", 250, "", 150, nil, 150, "1250", "1101", 2},
		{"before anchor", 250, "1200", 3, nil, 3, "1199", "1197", 1},
		{"whole history", 250, "", 0, nil, 250, "1250", "1001", 3},
		{"one author all", 250, "", 0, byAuthor("b"), 125, "1250", "1002", 3},
		{"one author capped", 250, "", 60, byAuthor("a"), 60, "1249", "1131", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(tt.total, purgeTime)
			got, err := scanBefore(store, "c", tt.before, tt.limit, tt.keep)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.wantCount || got[0].ID != tt.wantFirst || got[len(got)-1].ID != tt.wantLast {
				t.Fatalf("got %d messages %s..%s", len(got), got[0].ID, got[len(got)-1].ID)
			}
			if store.calls != tt.wantFetches {
				t.Fatalf("fetches = %d, want %d", store.calls, tt.wantFetches)
			}
		})
	}
}

func TestScanAfter(t *testing.T) {
	store := newFakeStore(250, purgeTime)
	got, err := scanAfter(store, "c", "1010", 3)
	if err != nil {
		t.Fatal(err)
	}
	if ids(got) != "1011,1012,1013" {
		t.Fatalf("got %s", ids(got))
	}

	store = newFakeStore(250, purgeTime)
	got, err = scanAfter(store, "c", "1100", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 150 || got[0].ID != "1101" || got[149].ID != "1250" {
		t.Fatalf("got %d messages %s..%s", len(got), got[0].ID, got[len(got)-1].ID)
	}
	if store.calls != 2 {
		t.Fatalf("fetches = %d, want 2", store.calls)
	}
}

func TestSnowflakeLess(t *testing.T) {
	if !snowflakeLess("999", "1000") || snowflakeLess("1000", "999") || !snowflakeLess("1000", "1001") {
		t.Fatal("snowflakes misordered")
	}
}

func TestDeleteMessagesBatches(t *testing.T) {
	store := newFakeStore(250, purgeTime)
	msgs, _ := scanBefore(store, "c", "", 0, nil)
	// The oldest message falls outside the bulk delete window.
	msgs[len(msgs)-1].Timestamp = purgeTime.Add(-30 * 24 * time.Hour)

	if n := deleteMessages(store, "c", msgs, purgeTime); n != 250 {
		t.Fatalf("deleted %d, want 250", n)
	}
	if len(store.bulk) != 3 || len(store.bulk[0]) != 100 || len(store.bulk[1]) != 100 || len(store.bulk[2]) != 49 {
		t.Fatalf("bulk batches = %d", len(store.bulk))
	}
	if len(store.single) != 1 || store.single[0] != "1001" {
		t.Fatalf("single deletes = %v", store.single)
	}
}

func TestDeleteMessagesFallsBack(t *testing.T) {
	store := newFakeStore(3, purgeTime)
	store.bulkErr = errors.New("forbidden")
	store.deleteErr["1002"] = errors.New("missing permissions")
	msgs, _ := scanBefore(store, "c", "", 0, nil)

	if n := deleteMessages(store, "c", msgs, purgeTime); n != 2 {
		t.Fatalf("deleted %d, want 2", n)
	}
	if strings.Join(store.single, ",") != "1003,1001" {
		t.Fatalf("single deletes = %v", store.single)
	}
}

func TestTextChannels(t *testing.T) {
	got := textChannels([]*discordgo.Channel{
		{ID: "1", Type: discordgo.ChannelTypeGuildText},
		{ID: "2", Type: discordgo.ChannelTypeGuildCategory},
		{ID: "3", Type: discordgo.ChannelTypeGuildVoice},
		{ID: "4", Type: discordgo.ChannelTypeGuildNews},
		{ID: "5", Type: discordgo.ChannelTypeGuildForum},
	})
	var kept []string
	for _, ch := range got {
		kept = append(kept, ch.ID)
	}
	if strings.Join(kept, ",") != "1,3,4" {
		t.Fatalf("kept %v", kept)
	}
}

func TestSectionedTranscript(t *testing.T) {
	dir := t.TempDir()
	msgs := sampleMessages()
	sections := []transcriptSection{
		{ChannelID: "10", Channel: "general", Messages: msgs[:1]},
		{ChannelID: "11", Channel: "memes", Messages: msgs[1:]},
	}
	if sectionCount(sections) != 2 {
		t.Fatalf("count = %d", sectionCount(sections))
	}
	var buf strings.Builder
	if err := writeSections(&buf, "bob's messages as of "+transcriptHeading(purgeTime), sections); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.HasPrefix(got, "bob's messages as of 2026-05-01 10:00:00 UTC:\n\n#general:\nAuthor: bob\n") {
		t.Fatalf("unexpected transcript start %q", got)
	}
	if !strings.Contains(got, "\n#memes:\nAuthor: alice#1234\n") {
		t.Fatalf("second section missing: %q", got)
	}
	if _, err := saveSections(dir, "x", sections); err != nil {
		t.Fatal(err)
	}
}

func TestFormatAllWarnings(t *testing.T) {
	if got := formatAllWarnings(nil); got != "There are no active warnings." {
		t.Fatalf("empty = %q", got)
	}
	w := data.Warning{ID: "abc", UserName: "alice", Reason: "spam", ModeratorID: "9", GivenAt: purgeTime, ExpiresAt: purgeTime}
	got := formatAllWarnings([]data.Warning{w})
	if !strings.HasPrefix(got, "All warnings:\nID: `abc`\nUser: alice") || !strings.HasSuffix(got, warningSeparator) {
		t.Fatalf("unexpected list %q", got)
	}
}
