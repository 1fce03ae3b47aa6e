package senate

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/OneOfOne/xxhash"
)

// Channels names the channels the controller writes to.
type Channels struct {
	Voting  string // bills are posted here
	Senate  string // previous wording of edited bills
	Archive string // passed bills with their tally
	Log     string // optional one-line record of each resolution
}

// Controller runs the bill lifecycle. It keeps no bill state of its own:
// every action re-reads the bill from the voting channel.
type Controller struct {
	Counter   *Counter
	Formatter Formatter
	Locator   *Locator
	Publisher Publisher
	Reactor   Reactor
	Channels  Channels
	Events    EventSink // optional
	Now       func() time.Time
}

// CurrentIndex returns the last issued bill number.
func (c *Controller) CurrentIndex() int { return c.Counter.Current() }

// CreateBill posts a new ordinary bill.
func (c *Controller) CreateBill(ctx context.Context, actor Actor, body string) (*Bill, error) {
	return c.create(ctx, actor, KindOrdinary, Envelope{Body: body})
}

// CreateOptionBill posts a new bill with options numbered ballots.
func (c *Controller) CreateOptionBill(ctx context.Context, actor Actor, options int, body string) (*Bill, error) {
	return c.create(ctx, actor, KindOption, Envelope{Options: options, Body: body})
}

// CreateAmendment posts an amendment as a reply to bill referenced.
func (c *Controller) CreateAmendment(ctx context.Context, actor Actor, referenced int, body string) (*Bill, error) {
	return c.create(ctx, actor, KindAmendment, Envelope{Referenced: referenced, Body: body})
}

// CreateOptionAmendment posts an option amendment as a reply to bill referenced.
func (c *Controller) CreateOptionAmendment(ctx context.Context, actor Actor, referenced, options int, body string) (*Bill, error) {
	return c.create(ctx, actor, KindOptionAmendment, Envelope{Referenced: referenced, Options: options, Body: body})
}

func (c *Controller) create(ctx context.Context, actor Actor, kind Kind, env Envelope) (*Bill, error) {
	if err := validateBody(env.Body); err != nil {
		return nil, err
	}
	withOptions := kind == KindOption || kind == KindOptionAmendment
	amendment := kind == KindAmendment || kind == KindOptionAmendment
	if withOptions {
		if err := validateOptions(env.Options); err != nil {
			return nil, err
		}
	}
	env.Author = actor.Mention
	if err := validateEnvelope(env); err != nil {
		return nil, err
	}

	var parent *Message
	if amendment {
		if err := c.checkNumber(env.Referenced); err != nil {
			return nil, err
		}
		msg, err := c.Locator.Find(ctx, env.Referenced)
		if err != nil {
			return nil, err
		}
		parent = msg
	}

	env.Index = c.Counter.Increment()
	c.syncCounter(ctx)

	text, err := c.Formatter.Render(env)
	if err != nil {
		return nil, err
	}

	var ref MessageRef
	if parent != nil {
		ref, err = c.Publisher.Reply(ctx, parent.Ref(), text)
	} else {
		ref, err = c.Publisher.Send(ctx, c.Channels.Voting, text)
	}
	if err != nil {
		return nil, fmt.Errorf("senate: post bill %d: %w", env.Index, err)
	}

	for _, emoji := range ballotEmojis(env.Options) {
		if err := c.Reactor.AddReaction(ctx, ref, emoji); err != nil {
			return nil, fmt.Errorf("senate: seed %s on bill %d: %w", emoji, env.Index, err)
		}
	}

	c.publish(ctx, "created", env.Index, actor, StatusOpen, "")
	return &Bill{Envelope: env, Status: StatusOpen, Message: ref}, nil
}

// Edit replaces the body of an open bill. Only the author may edit, and the
// previous wording is logged to the senate channel.
func (c *Controller) Edit(ctx context.Context, actor Actor, number int, body string) (*Bill, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}
	if err := c.checkNumber(number); err != nil {
		return nil, err
	}
	msg, err := c.Locator.Find(ctx, number)
	if err != nil {
		return nil, err
	}
	if StatusOf(msg.Reactions).Concluded() {
		return nil, ErrAlreadyConcluded
	}
	env, err := decodeMessage(msg)
	if err != nil {
		return nil, err
	}
	if !sameMention(env.Author, actor.Mention) {
		return nil, ErrNotAuthor
	}

	previous := env.Wording()
	env.Body = body
	text, err := c.Formatter.Render(env)
	if err != nil {
		return nil, err
	}
	if err := c.Publisher.Edit(ctx, msg.Ref(), text); err != nil {
		return nil, fmt.Errorf("senate: edit bill %d: %w", number, err)
	}

	audit := fmt.Sprintf("Previous wording (%016x): \r\n```%s```\r\nSuccess. %s",
		xxhash.ChecksumString64(previous), previous, actor.Mention)
	if _, err := c.Publisher.Send(ctx, c.Channels.Senate, audit); err != nil {
		log.Printf("senate: failed to log previous wording of bill %d: %v", number, err)
	}

	c.publish(ctx, "edited", number, actor, StatusOpen, "")
	return &Bill{Envelope: env, Status: StatusOpen, Message: msg.Ref()}, nil
}

// Resolve applies a terminal action to an open bill. ActionUnvoid is
// forwarded to Unvoid.
func (c *Controller) Resolve(ctx context.Context, actor Actor, action Action, number int, comment string) (*Bill, error) {
	if action == ActionUnvoid {
		return c.Unvoid(ctx, actor, number, comment)
	}
	rule, ok := actions[action]
	if !ok {
		return nil, invalid("Unknown action %q.", action)
	}
	if err := c.checkNumber(number); err != nil {
		return nil, err
	}
	msg, err := c.Locator.Find(ctx, number)
	if err != nil {
		return nil, err
	}
	if StatusOf(msg.Reactions).Concluded() {
		return nil, ErrAlreadyConcluded
	}
	env, err := decodeMessage(msg)
	if err != nil {
		return nil, err
	}
	if action == ActionWithdraw && !sameMention(env.Author, actor.Mention) {
		return nil, ErrNotAuthor
	}

	if err := c.Reactor.AddReaction(ctx, msg.Ref(), rule.marker); err != nil {
		return nil, fmt.Errorf("senate: mark bill %d: %w", number, err)
	}
	if _, err := c.Publisher.Reply(ctx, msg.Ref(), announcement(number, rule.announce, comment, env.Author)); err != nil {
		return nil, fmt.Errorf("senate: announce bill %d: %w", number, err)
	}

	bill := &Bill{Envelope: env, Status: rule.result, Message: msg.Ref()}
	if action == ActionPass {
		bill.Votes = Tally(msg.Reactions)
		if _, err := c.Publisher.Send(ctx, c.Channels.Archive, env.Wording()+"\r\n"+bill.Votes); err != nil {
			return nil, fmt.Errorf("senate: archive bill %d: %w", number, err)
		}
	}

	c.logResolution(ctx, actor, number, rule.result)
	c.publish(ctx, string(action), number, actor, rule.result, bill.Votes)
	return bill, nil
}

// Unvoid removes the void marker, returning the bill to open.
func (c *Controller) Unvoid(ctx context.Context, actor Actor, number int, comment string) (*Bill, error) {
	if err := c.checkNumber(number); err != nil {
		return nil, err
	}
	msg, err := c.Locator.Find(ctx, number)
	if err != nil {
		return nil, err
	}
	if StatusOf(msg.Reactions) != StatusVoided {
		return nil, ErrNotVoided
	}
	env, err := decodeMessage(msg)
	if err != nil {
		return nil, err
	}

	rule := actions[ActionUnvoid]
	if err := c.Reactor.RemoveOwnReaction(ctx, msg.Ref(), rule.marker); err != nil {
		return nil, fmt.Errorf("senate: unmark bill %d: %w", number, err)
	}
	if _, err := c.Publisher.Reply(ctx, msg.Ref(), announcement(number, rule.announce, comment, env.Author)); err != nil {
		return nil, fmt.Errorf("senate: announce bill %d: %w", number, err)
	}

	c.logResolution(ctx, actor, number, StatusOpen)
	c.publish(ctx, string(ActionUnvoid), number, actor, StatusOpen, "")
	return &Bill{Envelope: env, Status: StatusOpen, Message: msg.Ref()}, nil
}

// Lookup locates a bill and derives its status and current tally.
func (c *Controller) Lookup(ctx context.Context, number int) (*Bill, error) {
	if err := c.checkNumber(number); err != nil {
		return nil, err
	}
	msg, err := c.Locator.Find(ctx, number)
	if err != nil {
		return nil, err
	}
	env, err := decodeMessage(msg)
	if err != nil {
		return nil, err
	}
	return &Bill{
		Envelope: env,
		Status:   StatusOf(msg.Reactions),
		Votes:    Tally(msg.Reactions),
		Message:  msg.Ref(),
	}, nil
}

// SetIndex overwrites the bill counter.
func (c *Controller) SetIndex(ctx context.Context, n int) error {
	if n < 0 {
		return invalid("Index must not be negative.")
	}
	c.Counter.Set(n)
	c.syncCounter(ctx)
	return nil
}

func (c *Controller) checkNumber(number int) error {
	if number < 1 || number > c.Counter.Current() {
		return invalid("No valid bill number was given.")
	}
	return nil
}

func (c *Controller) syncCounter(ctx context.Context) {
	if err := c.Counter.Sync(ctx); err != nil {
		log.Printf("senate: failed to persist bill index: %v", err)
	}
}

func (c *Controller) logResolution(ctx context.Context, actor Actor, number int, status Status) {
	if c.Channels.Log == "" {
		return
	}
	line := fmt.Sprintf("%s marked Bill %d as %s.", actor.Mention, number, status)
	if _, err := c.Publisher.Send(ctx, c.Channels.Log, line); err != nil {
		log.Printf("senate: failed to write resolution log for bill %d: %v", number, err)
	}
}

func (c *Controller) publish(ctx context.Context, kind string, number int, actor Actor, status Status, votes string) {
	if c.Events == nil {
		return
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	ev := Event{Type: kind, Bill: number, ActorID: actor.ID, Status: status, Votes: votes, At: now().UTC()}
	if err := c.Events.Publish(ctx, ev); err != nil {
		log.Printf("senate: failed to publish %s event for bill %d: %v", kind, number, err)
	}
}

func announcement(number int, verb, comment, author string) string {
	if comment != "" {
		comment += " "
	}
	return fmt.Sprintf("Bill %d %s\r\n%s%s", number, verb, comment, author)
}
