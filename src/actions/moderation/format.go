package moderation

import (
	"fmt"
	"strings"

	"github.com/etbot-dev/etbot/src/actions/moderation/data"
)

const warningSeparator = "**--------------------------------------------------**"

func formatWarning(w data.Warning) string {
	return fmt.Sprintf("ID: `%s`\nUser: %s\nReason: %s\nModerator: <@%s>\nGiven: %s\nExpires: %s",
		w.ID, w.UserName, w.Reason, w.ModeratorID,
		w.GivenAt.Format("2006-01-02"), w.ExpiresAt.Format("2006-01-02"))
}

func formatWarningList(name string, warnings []data.Warning) string {
	if len(warnings) == 0 {
		return name + " has no warnings."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s has %d warnings:", name, len(warnings))
	for _, w := range warnings {
		b.WriteString("\n" + formatWarning(w) + "\n" + warningSeparator)
	}
	return b.String()
}

func formatAllWarnings(warnings []data.Warning) string {
	if len(warnings) == 0 {
		return "There are no active warnings."
	}
	var b strings.Builder
	b.WriteString("All warnings:")
	for _, w := range warnings {
		b.WriteString("\n" + formatWarning(w) + "\n" + warningSeparator)
	}
	return b.String()
}

// moderationLogLine announces a new warning, pinging palatineRoleID once
// the user reaches threshold active warnings.
func moderationLogLine(name, reason string, count int64, threshold int, palatineRoleID string) string {
	line := fmt.Sprintf("%s has been warned for %s.\nWarnings: %d", name, reason, count)
	if threshold > 0 && count >= int64(threshold) && palatineRoleID != "" {
		line += " <@&" + palatineRoleID + ">"
	}
	return line
}
