package senate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var (
	alice = Actor{ID: "100", Mention: "@alice"}
	bob   = Actor{ID: "200", Mention: "@bob"}
)

type harness struct {
	chat      *fakeChat
	ctrl      *Controller
	persister *memoryPersister
	events    *recordingSink
}

func newHarness(current int) *harness {
	chat := newFakeChat()
	persister := &memoryPersister{}
	events := &recordingSink{}
	ctrl := &Controller{
		Counter:   NewCounter(current, persister),
		Formatter: testFormatter,
		Locator: &Locator{
			History:       chat,
			ChannelID:     votingChannel,
			SenatorRoleID: "SENATOR",
			PosterID:      testBotID,
		},
		Publisher: chat,
		Reactor:   chat,
		Channels: Channels{
			Voting:  votingChannel,
			Senate:  "senate",
			Archive: "passed-bills",
			Log:     "bot-log",
		},
		Events: events,
		Now:    func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
	return &harness{chat: chat, ctrl: ctrl, persister: persister, events: events}
}

func reactionEmojis(msg *Message) []string {
	var out []string
	for _, r := range msg.Reactions {
		out = append(out, r.Emoji)
	}
	return out
}

func TestCreateBill(t *testing.T) {
	h := newHarness(41)
	bill, err := h.ctrl.CreateBill(context.Background(), alice, "Ban pineapple on pizza")
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if bill.Index != 42 || h.ctrl.CurrentIndex() != 42 {
		t.Fatalf("index = %d, counter = %d; want 42", bill.Index, h.ctrl.CurrentIndex())
	}

	msg := h.chat.last(votingChannel)
	want := "Bill 42: Ban pineapple on pizza Bill by: @alice <@&SENATOR> <@&TRIBUNE>"
	if msg.Content != want {
		t.Fatalf("posted %q\nwant   %q", msg.Content, want)
	}
	if got := strings.Join(reactionEmojis(msg), " "); got != "✅ ❌ 🤷" {
		t.Fatalf("seeded reactions %q", got)
	}
	if saved, _ := h.persister.lastSaved(); saved != 42 {
		t.Fatalf("persisted index %d, want 42", saved)
	}
}

func TestCreateOptionBillSeedsNumberedBallots(t *testing.T) {
	h := newHarness(0)
	if _, err := h.ctrl.CreateOptionBill(context.Background(), alice, 3, "Pick a mascot"); err != nil {
		t.Fatalf("CreateOptionBill: %v", err)
	}
	msg := h.chat.last(votingChannel)
	if got := strings.Join(reactionEmojis(msg), " "); got != "1️⃣ 2️⃣ 3️⃣ ❌ 🤷" {
		t.Fatalf("seeded reactions %q", got)
	}
	if !strings.HasPrefix(msg.Content, "Bill 1 (3 options): Pick a mascot") {
		t.Fatalf("unexpected content %q", msg.Content)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	long := strings.Repeat("a", MaxBodyLength+1)
	tests := []struct {
		name string
		fn   func(c *Controller) error
	}{
		{"long bill", func(c *Controller) error { _, err := c.CreateBill(context.Background(), alice, long); return err }},
		{"too few options", func(c *Controller) error { _, err := c.CreateOptionBill(context.Background(), alice, 1, "x"); return err }},
		{"zero options", func(c *Controller) error { _, err := c.CreateOptionBill(context.Background(), alice, 0, "x"); return err }},
		{"too many options", func(c *Controller) error { _, err := c.CreateOptionBill(context.Background(), alice, 11, "x"); return err }},
		{"amendment to future bill", func(c *Controller) error { _, err := c.CreateAmendment(context.Background(), alice, 6, "x"); return err }},
		{"amendment to bill zero", func(c *Controller) error { _, err := c.CreateAmendment(context.Background(), alice, 0, "x"); return err }},
		{"long option amendment", func(c *Controller) error {
			_, err := c.CreateOptionAmendment(context.Background(), alice, 1, 3, long)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(5)
			err := tt.fn(h.ctrl)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if h.ctrl.CurrentIndex() != 5 {
				t.Fatalf("counter moved to %d", h.ctrl.CurrentIndex())
			}
			if n := len(h.chat.messages(votingChannel)); n != 0 {
				t.Fatalf("%d messages posted", n)
			}
		})
	}
}

func TestCreateAmendmentRepliesToReferencedBill(t *testing.T) {
	h := newHarness(0)
	ctx := context.Background()
	parent, err := h.ctrl.CreateBill(ctx, alice, "Original")
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}

	amendment, err := h.ctrl.CreateOptionAmendment(ctx, bob, 1, 2, "Choose")
	if err != nil {
		t.Fatalf("CreateOptionAmendment: %v", err)
	}
	if amendment.Index != 2 || amendment.Referenced != 1 || amendment.Kind() != KindOptionAmendment {
		t.Fatalf("unexpected amendment %+v", amendment.Envelope)
	}
	if len(h.chat.replies) != 1 || h.chat.replies[0].to != parent.Message {
		t.Fatalf("amendment was not a reply to bill 1: %+v", h.chat.replies)
	}
	want := "Bill 2 (2 options): Amendment to Bill 1 Choose Bill by: @bob <@&SENATOR> <@&TRIBUNE>"
	if got := h.chat.last(votingChannel).Content; got != want {
		t.Fatalf("posted %q\nwant   %q", got, want)
	}
}

func TestCreateAmendmentToMissingBill(t *testing.T) {
	h := newHarness(10)
	_, err := h.ctrl.CreateAmendment(context.Background(), alice, 3, "x")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if h.ctrl.CurrentIndex() != 10 {
		t.Fatalf("counter moved to %d", h.ctrl.CurrentIndex())
	}
}

func TestEdit(t *testing.T) {
	h := newHarness(0)
	ctx := context.Background()
	bill, err := h.ctrl.CreateBill(ctx, alice, "Old wording")
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}

	if _, err := h.ctrl.Edit(ctx, bob, 1, "Hijacked"); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("edit by bob: expected ErrNotAuthor, got %v", err)
	}

	if _, err := h.ctrl.Edit(ctx, alice, 1, "New wording"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	msg := h.chat.find(bill.Message)
	if want := "Bill 1: New wording Bill by: @alice <@&SENATOR> <@&TRIBUNE>"; msg.Content != want {
		t.Fatalf("edited content %q", msg.Content)
	}
	audit := h.chat.last("senate")
	if audit == nil || !strings.Contains(audit.Content, "```Bill 1: Old wording```") || !strings.HasSuffix(audit.Content, "Success. @alice") {
		t.Fatalf("previous wording not logged: %+v", audit)
	}
	if h.ctrl.CurrentIndex() != 1 {
		t.Fatalf("edit changed counter to %d", h.ctrl.CurrentIndex())
	}
}

func TestEditKeepsAmendmentMetadata(t *testing.T) {
	h := newHarness(0)
	ctx := context.Background()
	if _, err := h.ctrl.CreateBill(ctx, alice, "Parent"); err != nil {
		t.Fatal(err)
	}
	amendment, err := h.ctrl.CreateOptionAmendment(ctx, alice, 1, 4, "Before")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.ctrl.Edit(ctx, alice, 2, "After"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	got, err := DecodeEnvelope(h.chat.find(amendment.Message).Content)
	if err != nil {
		t.Fatal(err)
	}
	want := Envelope{Index: 2, Referenced: 1, Options: 4, Author: "@alice", Body: "After"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestEditConcludedBill(t *testing.T) {
	h := newHarness(0)
	ctx := context.Background()
	if _, err := h.ctrl.CreateBill(ctx, alice, "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.ctrl.Resolve(ctx, bob, ActionFail, 1, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := h.ctrl.Edit(ctx, alice, 1, "y"); !errors.Is(err, ErrAlreadyConcluded) {
		t.Fatalf("expected ErrAlreadyConcluded, got %v", err)
	}
}

func TestPassTalliesAndArchives(t *testing.T) {
	h := newHarness(41)
	ctx := context.Background()
	bill, err := h.ctrl.CreateBill(ctx, alice, "Ban pineapple on pizza")
	if err != nil {
		t.Fatal(err)
	}
	h.chat.vote(bill.Message, EmojiYes, 4)
	h.chat.vote(bill.Message, EmojiNo, 1)

	passed, err := h.ctrl.Resolve(ctx, bob, ActionPass, 42, "Well argued.")
	if err != nil {
		t.Fatalf("pass: %v", err)
	}
	if passed.Status != StatusPassed || passed.Votes != "4 ✅ | 1 ❌ | 0 🤷" {
		t.Fatalf("unexpected result %+v", passed)
	}

	archived := h.chat.last("passed-bills")
	if want := "Bill 42: Ban pineapple on pizza\r\n4 ✅ | 1 ❌ | 0 🤷"; archived == nil || archived.Content != want {
		t.Fatalf("archive = %+v, want %q", archived, want)
	}
	reply := h.chat.replies[len(h.chat.replies)-1]
	if reply.to != bill.Message || reply.text != "Bill 42 passes.\r\nWell argued. @alice" {
		t.Fatalf("unexpected announcement %+v", reply)
	}
	if logLine := h.chat.last("bot-log"); logLine == nil || logLine.Content != "@bob marked Bill 42 as passed." {
		t.Fatalf("unexpected log line %+v", logLine)
	}
}

func TestTerminalActionsAreIdempotent(t *testing.T) {
	terminal := []Action{ActionPass, ActionFail, ActionVeto, ActionForceThrough, ActionVoid, ActionWithdraw}
	for _, first := range terminal {
		t.Run(string(first), func(t *testing.T) {
			h := newHarness(0)
			ctx := context.Background()
			if _, err := h.ctrl.CreateBill(ctx, alice, "x"); err != nil {
				t.Fatal(err)
			}
			if _, err := h.ctrl.Resolve(ctx, alice, first, 1, ""); err != nil {
				t.Fatalf("first %s: %v", first, err)
			}
			want := actions[first].result
			if bill, err := h.ctrl.Lookup(ctx, 1); err != nil || bill.Status != want {
				t.Fatalf("lookup after %s: %+v, %v", first, bill, err)
			}
			for _, again := range terminal {
				if _, err := h.ctrl.Resolve(ctx, alice, again, 1, ""); !errors.Is(err, ErrAlreadyConcluded) {
					t.Fatalf("%s after %s: expected ErrAlreadyConcluded, got %v", again, first, err)
				}
			}
		})
	}
}

func TestUnvoidSucceedsOnce(t *testing.T) {
	h := newHarness(0)
	ctx := context.Background()
	if _, err := h.ctrl.CreateBill(ctx, alice, "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.ctrl.Unvoid(ctx, bob, 1, ""); !errors.Is(err, ErrNotVoided) {
		t.Fatalf("unvoid on open bill: expected ErrNotVoided, got %v", err)
	}
	if _, err := h.ctrl.Resolve(ctx, bob, ActionVoid, 1, "Spam"); err != nil {
		t.Fatal(err)
	}
	bill, err := h.ctrl.Resolve(ctx, bob, ActionUnvoid, 1, "")
	if err != nil {
		t.Fatalf("unvoid: %v", err)
	}
	if bill.Status != StatusOpen {
		t.Fatalf("status after unvoid = %s", bill.Status)
	}
	if _, err := h.ctrl.Unvoid(ctx, bob, 1, ""); !errors.Is(err, ErrNotVoided) {
		t.Fatalf("second unvoid: expected ErrNotVoided, got %v", err)
	}
	if _, err := h.ctrl.Resolve(ctx, bob, ActionPass, 1, ""); err != nil {
		t.Fatalf("pass after unvoid: %v", err)
	}
}

func TestUnvoidOnOtherTerminalState(t *testing.T) {
	h := newHarness(0)
	ctx := context.Background()
	if _, err := h.ctrl.CreateBill(ctx, alice, "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.ctrl.Resolve(ctx, bob, ActionVeto, 1, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := h.ctrl.Unvoid(ctx, bob, 1, ""); !errors.Is(err, ErrNotVoided) {
		t.Fatalf("expected ErrNotVoided, got %v", err)
	}
}

func TestWithdrawRequiresAuthor(t *testing.T) {
	h := newHarness(0)
	ctx := context.Background()
	if _, err := h.ctrl.CreateBill(ctx, alice, "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.ctrl.Resolve(ctx, bob, ActionWithdraw, 1, ""); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected ErrNotAuthor, got %v", err)
	}
	if bill, _ := h.ctrl.Lookup(ctx, 1); bill.Status != StatusOpen {
		t.Fatalf("status = %s after rejected withdraw", bill.Status)
	}
	if _, err := h.ctrl.Resolve(ctx, alice, ActionWithdraw, 1, ""); err != nil {
		t.Fatalf("withdraw by author: %v", err)
	}
}

func TestMemberMarkerDoesNotConclude(t *testing.T) {
	h := newHarness(0)
	ctx := context.Background()
	bill, err := h.ctrl.CreateBill(ctx, alice, "x")
	if err != nil {
		t.Fatal(err)
	}
	h.chat.vote(bill.Message, MarkerVoided, 3)
	if _, err := h.ctrl.Resolve(ctx, bob, ActionFail, 1, ""); err != nil {
		t.Fatalf("fail with member markers present: %v", err)
	}
}

func TestResolveRejectsInvalidNumbers(t *testing.T) {
	h := newHarness(3)
	for _, n := range []int{0, -1, 4} {
		_, err := h.ctrl.Resolve(context.Background(), bob, ActionPass, n, "")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("number %d: expected ValidationError, got %v", n, err)
		}
	}
	if h.chat.fetches != 0 {
		t.Fatalf("history fetched %d times for invalid numbers", h.chat.fetches)
	}
	if _, err := h.ctrl.Resolve(context.Background(), bob, Action("banish"), 1, ""); err == nil {
		t.Fatal("unknown action accepted")
	}
}

func TestMalformedTextIsSkipped(t *testing.T) {
	h := newHarness(2)
	bill, err := h.ctrl.CreateBill(context.Background(), alice, "Real wording")
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	h.chat.post(votingChannel, testBotID, "Bill 3: trailer went missing <@&SENATOR>")

	got, err := h.ctrl.Resolve(context.Background(), bob, ActionPass, 3, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Message != bill.Message {
		t.Fatalf("resolved %s, want %s", got.Message.ID, bill.Message.ID)
	}
}

func TestDecodeMessageNamesTheMessage(t *testing.T) {
	_, err := decodeMessage(&Message{ID: "m9", Content: "Bill 3: trailer went missing <@&SENATOR>"})
	var mb *MalformedBillError
	if !errors.As(err, &mb) {
		t.Fatalf("expected MalformedBillError, got %v", err)
	}
	if mb.MessageID != "m9" {
		t.Fatalf("malformed error names %q", mb.MessageID)
	}
}

func TestAnnouncementMentioningSenatorsDoesNotShadowBill(t *testing.T) {
	ctx := context.Background()
	h := newHarness(0)
	if _, err := h.ctrl.CreateBill(ctx, alice, "Ban pineapple on pizza"); err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if _, err := h.ctrl.Resolve(ctx, bob, ActionVoid, 1, "<@&SENATOR> please resubmit"); err != nil {
		t.Fatalf("void: %v", err)
	}
	if _, err := h.ctrl.Unvoid(ctx, bob, 1, "<@&SENATOR> back on the floor"); err != nil {
		t.Fatalf("unvoid after a pinging comment: %v", err)
	}
	if _, err := h.ctrl.Resolve(ctx, bob, ActionPass, 1, "<@&SENATOR> carried"); err != nil {
		t.Fatalf("pass: %v", err)
	}
	bill, err := h.ctrl.Lookup(ctx, 1)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if bill.Status != StatusPassed || bill.Body != "Ban pineapple on pizza" {
		t.Fatalf("lookup = %+v", bill)
	}
}

func TestSetIndex(t *testing.T) {
	h := newHarness(10)
	if err := h.ctrl.SetIndex(context.Background(), 3); err != nil {
		t.Fatalf("SetIndex: %v", err)
	}
	if saved, _ := h.persister.lastSaved(); saved != 3 || h.ctrl.CurrentIndex() != 3 {
		t.Fatalf("index %d, saved %d", h.ctrl.CurrentIndex(), saved)
	}
	var verr *ValidationError
	if err := h.ctrl.SetIndex(context.Background(), -1); !errors.As(err, &verr) {
		t.Fatalf("negative index: expected ValidationError, got %v", err)
	}
}

func TestPersistFailureDoesNotBlockCreation(t *testing.T) {
	h := newHarness(0)
	h.persister.err = errors.New("db down")
	if _, err := h.ctrl.CreateBill(context.Background(), alice, "x"); err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if h.ctrl.CurrentIndex() != 1 {
		t.Fatalf("counter = %d", h.ctrl.CurrentIndex())
	}
}

func TestEventsPublished(t *testing.T) {
	h := newHarness(0)
	ctx := context.Background()
	if _, err := h.ctrl.CreateBill(ctx, alice, "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.ctrl.Resolve(ctx, bob, ActionVeto, 1, ""); err != nil {
		t.Fatal(err)
	}
	if len(h.events.events) != 2 {
		t.Fatalf("events = %+v", h.events.events)
	}
	ev := h.events.events[1]
	if ev.Type != "veto" || ev.Bill != 1 || ev.ActorID != bob.ID || ev.Status != StatusVetoed {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestEditAcceptsNicknameMention(t *testing.T) {
	h := newHarness(0)
	ctx := context.Background()
	if _, err := h.ctrl.CreateBill(ctx, Actor{ID: "100", Mention: "<@100>"}, "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := h.ctrl.Edit(ctx, Actor{ID: "100", Mention: "<@!100>"}, 1, "y"); err != nil {
		t.Fatalf("edit with nickname mention: %v", err)
	}
}
