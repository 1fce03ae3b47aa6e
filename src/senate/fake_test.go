package senate

import (
	"context"
	"fmt"
	"regexp"
	"sync"
)

const testBotID = "bot"

var roleMentionPattern = regexp.MustCompile(`<@&([^>]+)>`)

type sentReply struct {
	to   MessageRef
	text string
}

// fakeChat is an in-memory channel store standing in for Discord.
type fakeChat struct {
	mu       sync.Mutex
	nextID   int
	channels map[string][]*Message // oldest first
	fetches  int
	replies  []sentReply
}

func newFakeChat() *fakeChat {
	return &fakeChat{channels: make(map[string][]*Message)}
}

func (f *fakeChat) post(channelID, authorID, content string) *Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.postLocked(channelID, authorID, content)
}

func (f *fakeChat) postLocked(channelID, authorID, content string) *Message {
	f.nextID++
	msg := &Message{
		ID:           fmt.Sprintf("%06d", f.nextID),
		ChannelID:    channelID,
		AuthorID:     authorID,
		Content:      content,
		MentionRoles: mentionedRoles(content),
	}
	f.channels[channelID] = append(f.channels[channelID], msg)
	return msg
}

func mentionedRoles(content string) []string {
	var roles []string
	for _, m := range roleMentionPattern.FindAllStringSubmatch(content, -1) {
		roles = append(roles, m[1])
	}
	return roles
}

func (f *fakeChat) find(ref MessageRef) *Message {
	for _, m := range f.channels[ref.ChannelID] {
		if m.ID == ref.ID {
			return m
		}
	}
	return nil
}

func (f *fakeChat) messages(channelID string) []*Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Message(nil), f.channels[channelID]...)
}

func (f *fakeChat) last(channelID string) *Message {
	msgs := f.messages(channelID)
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

// vote adds n member reactions with emoji.
func (f *fakeChat) vote(ref MessageRef, emoji string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := f.find(ref)
	for i := range msg.Reactions {
		if sameEmoji(msg.Reactions[i].Emoji, emoji) {
			msg.Reactions[i].Count += n
			return
		}
	}
	msg.Reactions = append(msg.Reactions, Reaction{Emoji: emoji, Count: n})
}

func (f *fakeChat) FetchPage(_ context.Context, channelID string, limit int, before string) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++

	msgs := f.channels[channelID]
	end := len(msgs)
	if before != "" {
		end = 0
		for i, m := range msgs {
			if m.ID == before {
				end = i
				break
			}
		}
	}
	var page []Message
	for i := end - 1; i >= 0 && len(page) < limit; i-- {
		cp := *msgs[i]
		cp.Reactions = append([]Reaction(nil), msgs[i].Reactions...)
		page = append(page, cp)
	}
	return page, nil
}

func (f *fakeChat) Send(_ context.Context, channelID, text string) (MessageRef, error) {
	return f.post(channelID, testBotID, text).Ref(), nil
}

func (f *fakeChat) Reply(_ context.Context, to MessageRef, text string) (MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, sentReply{to: to, text: text})
	return f.postLocked(to.ChannelID, testBotID, text).Ref(), nil
}

func (f *fakeChat) Edit(_ context.Context, ref MessageRef, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := f.find(ref)
	if msg == nil {
		return fmt.Errorf("unknown message %s", ref.ID)
	}
	msg.Content = text
	msg.MentionRoles = mentionedRoles(text)
	return nil
}

func (f *fakeChat) AddReaction(_ context.Context, ref MessageRef, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := f.find(ref)
	if msg == nil {
		return fmt.Errorf("unknown message %s", ref.ID)
	}
	for i := range msg.Reactions {
		r := &msg.Reactions[i]
		if sameEmoji(r.Emoji, emoji) {
			if !r.Me {
				r.Me = true
				r.Count++
			}
			return nil
		}
	}
	msg.Reactions = append(msg.Reactions, Reaction{Emoji: emoji, Count: 1, Me: true})
	return nil
}

func (f *fakeChat) RemoveOwnReaction(_ context.Context, ref MessageRef, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := f.find(ref)
	if msg == nil {
		return fmt.Errorf("unknown message %s", ref.ID)
	}
	for i := range msg.Reactions {
		r := &msg.Reactions[i]
		if sameEmoji(r.Emoji, emoji) && r.Me {
			r.Me = false
			r.Count--
			if r.Count == 0 {
				msg.Reactions = append(msg.Reactions[:i], msg.Reactions[i+1:]...)
			}
			return nil
		}
	}
	return nil
}

type memoryPersister struct {
	mu    sync.Mutex
	saved []int
	err   error
}

func (p *memoryPersister) SaveIndex(_ context.Context, index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.saved = append(p.saved, index)
	return nil
}

func (p *memoryPersister) lastSaved() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.saved) == 0 {
		return 0, false
	}
	return p.saved[len(p.saved)-1], true
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Publish(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}
