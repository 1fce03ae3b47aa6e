package moderation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// transcriptSection groups the messages taken from one channel. Channel is
// the display name, left empty for single-channel purges.
type transcriptSection struct {
	ChannelID string
	Channel   string
	Messages  []*discordgo.Message
}

// writeTranscript writes msgs in the order given in a plain text layout
// readable without the bot.
func writeTranscript(w io.Writer, msgs []*discordgo.Message, at time.Time) error {
	return writeSections(w, transcriptHeading(at), []transcriptSection{{Messages: msgs}})
}

func transcriptHeading(at time.Time) string {
	return at.UTC().Format("2006-01-02 15:04:05 MST") + ":"
}

func writeSections(w io.Writer, heading string, sections []transcriptSection) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n\n", heading)
	for _, sec := range sections {
		if sec.Channel != "" {
			fmt.Fprintf(bw, "#%s:\n", sec.Channel)
		}
		for _, m := range sec.Messages {
			bw.WriteString(messageEntry(m))
		}
	}
	return bw.Flush()
}

func messageEntry(m *discordgo.Message) string {
	var b strings.Builder
	author := "unknown"
	if m.Author != nil {
		author = m.Author.Username
		if m.Author.Discriminator != "" && m.Author.Discriminator != "0" {
			author += "#" + m.Author.Discriminator
		}
	}
	fmt.Fprintf(&b, "Author: %s\n", author)
	fmt.Fprintf(&b, "Created at: %s\n", m.Timestamp.UTC().Format(time.RFC3339))
	if m.MessageReference != nil && m.MessageReference.MessageID != "" {
		fmt.Fprintf(&b, "Replying to: %s\n", m.MessageReference.MessageID)
	}
	if len(m.Attachments) > 0 {
		urls := make([]string, 0, len(m.Attachments))
		for _, a := range m.Attachments {
			urls = append(urls, a.URL)
		}
		fmt.Fprintf(&b, "Attachments: %s\n", strings.Join(urls, " "))
	}
	fmt.Fprintf(&b, "Content: \n%s\n\n\n", m.Content)
	return b.String()
}

// saveTranscript writes a transcript to a new uuid-named file in dir.
func saveTranscript(dir string, msgs []*discordgo.Message, at time.Time) (string, error) {
	return saveSections(dir, transcriptHeading(at), []transcriptSection{{Messages: msgs}})
}

func saveSections(dir, heading string, sections []transcriptSection) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("moderation: create transcript dir: %w", err)
	}
	path := filepath.Join(dir, uuid.NewString()+".txt")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("moderation: create transcript: %w", err)
	}
	if err := writeSections(f, heading, sections); err != nil {
		f.Close()
		return "", fmt.Errorf("moderation: write transcript: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("moderation: close transcript: %w", err)
	}
	return path, nil
}

func sectionCount(sections []transcriptSection) int {
	n := 0
	for _, sec := range sections {
		n += len(sec.Messages)
	}
	return n
}

// bulkDeletable splits message IDs into those young enough for bulk
// deletion and those that must be deleted one by one.
func bulkDeletable(msgs []*discordgo.Message, now time.Time) (bulk, single []string) {
	cutoff := now.Add(-bulkDeleteMaxAge)
	for _, m := range msgs {
		if m.Timestamp.After(cutoff) {
			bulk = append(bulk, m.ID)
		} else {
			single = append(single, m.ID)
		}
	}
	return bulk, single
}

// Discord refuses bulk deletes of messages older than two weeks.
const bulkDeleteMaxAge = 14*24*time.Hour - time.Minute
