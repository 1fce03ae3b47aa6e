package senate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	sharedconfig "github.com/etbot-dev/etbot/src/config"
	shareddiscord "github.com/etbot-dev/etbot/src/discord"
	"github.com/etbot-dev/etbot/src/logging"
	"github.com/etbot-dev/etbot/src/senate"
)

// commandTimeout bounds one command including the history scan.
const commandTimeout = 2 * time.Minute

// Handler executes the bill slash commands.
type Handler struct {
	Config     *sharedconfig.SenateConfig
	Controller *senate.Controller
}

// command is a parsed slash command invocation.
type command struct {
	name     string
	number   int
	options  int
	newIndex int
	text     string
	comment  string
}

func parseCommand(data discordgo.ApplicationCommandInteractionData) command {
	cmd := command{name: data.Name}
	for _, opt := range data.Options {
		switch opt.Name {
		case "bill_number":
			cmd.number = int(opt.IntValue())
		case "options":
			cmd.options = int(opt.IntValue())
		case "new_index":
			cmd.newIndex = int(opt.IntValue())
		case "text":
			cmd.text = strings.TrimSpace(opt.StringValue())
		case "comment":
			cmd.comment = strings.TrimSpace(opt.StringValue())
		}
	}
	return cmd
}

// String renders the command the way the user would retype it.
func (c command) String() string {
	parts := []string{"/" + c.name}
	switch c.name {
	case shareddiscord.CommandBill:
		parts = append(parts, c.text)
	case shareddiscord.CommandAmendment, shareddiscord.CommandEdit:
		parts = append(parts, strconv.Itoa(c.number), c.text)
	case shareddiscord.CommandOption:
		parts = append(parts, strconv.Itoa(c.options), c.text)
	case shareddiscord.CommandAmendmentOption:
		parts = append(parts, strconv.Itoa(c.number), strconv.Itoa(c.options), c.text)
	case shareddiscord.CommandIndex:
		parts = append(parts, strconv.Itoa(c.newIndex))
	default:
		parts = append(parts, strconv.Itoa(c.number))
		if c.comment != "" {
			parts = append(parts, c.comment)
		}
	}
	return strings.Join(parts, " ")
}

// HandleSlash executes one bill command.
func (h *Handler) HandleSlash(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if h == nil {
		return
	}
	user := shareddiscord.InteractionUser(i)
	if i.Member == nil || user == nil {
		shareddiscord.RespondEphemeral(s, i, "This command can only be used in the server.")
		return
	}

	cmd := parseCommand(i.ApplicationCommandData())
	actor := senate.Actor{ID: user.ID, Mention: user.Mention()}

	if !channelAllowed(h.Config, cmd.name, i.ChannelID) {
		shareddiscord.RespondEphemeral(s, i, fmt.Sprintf("This command cannot be used in this channel. %s\r\n```%s```", actor.Mention, cmd))
		return
	}
	if !authorized(h.Config, cmd.name, i.Member) {
		shareddiscord.RespondEphemeral(s, i, "You don't have permission to use this command.")
		return
	}

	if err := shareddiscord.DeferEphemeral(s, i); err != nil {
		log.Printf("senate: failed to acknowledge interaction: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	reply, err := h.run(ctx, actor, cmd)
	if err != nil {
		if !isUserError(err) {
			log.Printf("senate: %s by %s failed: %v", cmd.name, actor.ID, err)
		}
		reply = failureMessage(err, actor.Mention, cmd)
	} else {
		logging.Action("senate", actor.ID, "%s", cmd)
	}

	if err := shareddiscord.EditResponse(s, i, reply, true); err != nil {
		log.Printf("senate: failed to send response: %v", err)
	}
}

func (h *Handler) run(ctx context.Context, actor senate.Actor, cmd command) (string, error) {
	c := h.Controller
	switch cmd.name {
	case shareddiscord.CommandBill:
		if _, err := c.CreateBill(ctx, actor, cmd.text); err != nil {
			return "", err
		}
		return "Bill assembled and posted. " + senate.EmojiYes, nil
	case shareddiscord.CommandAmendment:
		if _, err := c.CreateAmendment(ctx, actor, cmd.number, cmd.text); err != nil {
			return "", err
		}
		return "Amendment assembled and posted. " + senate.EmojiYes, nil
	case shareddiscord.CommandOption:
		if _, err := c.CreateOptionBill(ctx, actor, cmd.options, cmd.text); err != nil {
			return "", err
		}
		return "Option bill assembled and posted. " + senate.EmojiYes, nil
	case shareddiscord.CommandAmendmentOption:
		if _, err := c.CreateOptionAmendment(ctx, actor, cmd.number, cmd.options, cmd.text); err != nil {
			return "", err
		}
		return "Option amendment assembled and posted. " + senate.EmojiYes, nil
	case shareddiscord.CommandEdit:
		if _, err := c.Edit(ctx, actor, cmd.number, cmd.text); err != nil {
			return "", err
		}
		return "Bill edited. " + senate.EmojiYes, nil
	case shareddiscord.CommandIndex:
		if err := c.SetIndex(ctx, cmd.newIndex); err != nil {
			return "", err
		}
		return fmt.Sprintf("Index set to %d.", cmd.newIndex), nil
	}

	action, ok := senate.ParseAction(cmd.name)
	if !ok {
		return "", fmt.Errorf("senate: unknown command %q", cmd.name)
	}
	bill, err := c.Resolve(ctx, actor, action, cmd.number, cmd.comment)
	if err != nil {
		return "", err
	}
	switch action {
	case senate.ActionPass:
		return fmt.Sprintf("Bill marked and posted to <#%s>.", h.Config.PassedBillsChannelID), nil
	case senate.ActionUnvoid:
		return "Bill unmarked as void.", nil
	default:
		return fmt.Sprintf("Bill marked as %s.", bill.Status), nil
	}
}

// channelAllowed restricts /edit to the senate channel and /index to the
// staff commands channel. Everything else may be used in any of the senate,
// voting or staff channels. Unconfigured channels are left out; with none
// configured every channel is allowed.
func channelAllowed(cfg *sharedconfig.SenateConfig, name, channelID string) bool {
	var allowed []string
	switch name {
	case shareddiscord.CommandEdit:
		allowed = []string{cfg.SenateChannelID}
	case shareddiscord.CommandIndex:
		allowed = []string{cfg.StaffCommandsChannelID}
	default:
		allowed = []string{cfg.SenateChannelID, cfg.VotingChannelID, cfg.StaffCommandsChannelID}
	}

	configured := false
	for _, id := range allowed {
		if id == "" {
			continue
		}
		configured = true
		if id == channelID {
			return true
		}
	}
	return !configured
}

func authorized(cfg *sharedconfig.SenateConfig, name string, member *discordgo.Member) bool {
	switch name {
	case shareddiscord.CommandBill, shareddiscord.CommandAmendment,
		shareddiscord.CommandOption, shareddiscord.CommandAmendmentOption,
		shareddiscord.CommandEdit:
		return shareddiscord.MemberHasAnyRole(member, cfg.Senator)
	case shareddiscord.CommandPass, shareddiscord.CommandFail,
		shareddiscord.CommandVeto, shareddiscord.CommandForceThrough:
		return shareddiscord.MemberHasAnyRole(member, cfg.Emperor)
	case shareddiscord.CommandVoid, shareddiscord.CommandUnvoid:
		return shareddiscord.MemberHasAnyRole(member, cfg.Staff()...)
	case shareddiscord.CommandIndex:
		return member != nil && member.Permissions&discordgo.PermissionAdministrator != 0
	case shareddiscord.CommandWithdraw:
		return true
	default:
		return false
	}
}

func isUserError(err error) bool {
	var verr *senate.ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, senate.ErrNotFound) ||
		errors.Is(err, senate.ErrAlreadyConcluded) ||
		errors.Is(err, senate.ErrNotAuthor) ||
		errors.Is(err, senate.ErrNotVoided)
}

// failureMessage explains err to the invoker and echoes the command so it
// can be corrected and resubmitted.
func failureMessage(err error, mention string, cmd command) string {
	var reason string
	var verr *senate.ValidationError
	var malformed *senate.MalformedBillError
	switch {
	case errors.As(err, &verr):
		reason = verr.Reason
	case errors.Is(err, senate.ErrNotFound):
		reason = "No bill with that index found."
	case errors.Is(err, senate.ErrAlreadyConcluded):
		reason = "Bill has already been concluded."
	case errors.Is(err, senate.ErrNotAuthor):
		reason = "This is not your Bill."
	case errors.Is(err, senate.ErrNotVoided):
		reason = "Bill is not void."
	case errors.As(err, &malformed):
		reason = "That bill could not be read. Please contact staff."
	case errors.Is(err, context.DeadlineExceeded):
		reason = "Searching for the bill took too long. Please try again."
	default:
		reason = "Something went wrong. Please try again later."
	}
	return fmt.Sprintf("%s %s\r\n```%s```", reason, mention, cmd)
}
