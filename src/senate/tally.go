package senate

import (
	"fmt"
	"strings"
)

// Tally renders the vote counts of a bill as "{n} {emoji}" entries joined by
// " | ", ordered yes, options ascending, no, abstain. Each count excludes the
// bot's seed reaction. An entry is present only if its emoji is on the
// message; unrecognised emoji are ignored.
func Tally(reactions []Reaction) string {
	const slots = MaxOptions + 3
	var (
		counts  [slots]int
		present [slots]bool
	)
	order := make([]string, 0, slots)
	order = append(order, EmojiYes)
	order = append(order, OptionEmojis[:]...)
	order = append(order, EmojiNo, EmojiAbstain)

	for _, r := range reactions {
		for i, e := range order {
			if sameEmoji(r.Emoji, e) {
				if !present[i] {
					present[i] = true
					counts[i] = -1
				}
				counts[i] += r.Count
				break
			}
		}
	}

	entries := make([]string, 0, slots)
	for i, e := range order {
		if !present[i] {
			continue
		}
		n := counts[i]
		if n < 0 {
			n = 0
		}
		entries = append(entries, fmt.Sprintf("%d %s", n, e))
	}
	return strings.Join(entries, " | ")
}
