package senate

import "strings"

// Ballot emoji seeded on every bill.
const (
	EmojiYes     = "✅"
	EmojiNo      = "❌"
	EmojiAbstain = "🤷"
)

// OptionEmojis are the numbered ballot emoji for option bills, in order.
var OptionEmojis = [MaxOptions]string{
	"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣",
	"6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟",
}

// Status markers. Only reactions placed by the bot count as markers.
const (
	MarkerPassed        = "🏛️"
	MarkerFailed        = "🔒"
	MarkerVetoed        = "⛔"
	MarkerForcedThrough = "👑"
	MarkerVoided        = "🚫"
	MarkerWithdrawn     = "🏳️"
)

// normalizeEmoji strips variation selectors so that "🏛" and "🏛️" compare
// equal; Discord does not always echo the selector back.
func normalizeEmoji(e string) string {
	return strings.ReplaceAll(e, "\uFE0F", "")
}

func sameEmoji(a, b string) bool {
	return normalizeEmoji(a) == normalizeEmoji(b)
}

// ballotEmojis returns the reactions seeded on a new bill.
func ballotEmojis(options int) []string {
	if options <= 0 {
		return []string{EmojiYes, EmojiNo, EmojiAbstain}
	}
	out := make([]string, 0, options+2)
	out = append(out, OptionEmojis[:options]...)
	return append(out, EmojiNo, EmojiAbstain)
}
