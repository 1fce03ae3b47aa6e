package discord

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	CommandBill            = "bill"
	CommandAmendment       = "amendment"
	CommandOption          = "option"
	CommandAmendmentOption = "amendmentoption"
	CommandEdit            = "edit"
	CommandIndex           = "index"
	CommandPass            = "pass"
	CommandFail            = "fail"
	CommandVeto            = "veto"
	CommandForceThrough    = "forcethrough"
	CommandVoid            = "void"
	CommandUnvoid          = "unvoid"
	CommandWithdraw        = "withdraw"

	CommandMeme = "meme"
	CommandVote = "vote"

	CommandSave             = "save"
	CommandPurge            = "purge"
	CommandPurgeAfter       = "purgeafter"
	CommandPurgeBefore      = "purgebefore"
	CommandPurgeUserChannel = "purgeuserchannel"
	CommandPurgeUserAll     = "purgeuserall"
	CommandWarn             = "warn"
	CommandDelWarn          = "delwarn"
	CommandWarnings         = "warnings"
	CommandAllWarnings      = "allwarnings"
	CommandMyWarnings       = "mywarnings"

	CommandMinecraft = "mc"
)

// SenateCommands lists the commands served by the senate module.
var SenateCommands = []string{
	CommandBill, CommandAmendment, CommandOption, CommandAmendmentOption,
	CommandEdit, CommandIndex,
	CommandPass, CommandFail, CommandVeto, CommandForceThrough,
	CommandVoid, CommandUnvoid, CommandWithdraw,
}

var MemeCommands = []string{CommandMeme, CommandVote}

var ModerationCommands = []string{
	CommandSave,
	CommandPurge, CommandPurgeAfter, CommandPurgeBefore, CommandPurgeUserChannel, CommandPurgeUserAll,
	CommandWarn, CommandDelWarn, CommandWarnings, CommandAllWarnings, CommandMyWarnings,
}

var GameServerCommands = []string{CommandMinecraft}

var (
	permAdministrator  int64 = discordgo.PermissionAdministrator
	permManageMessages int64 = discordgo.PermissionManageMessages
	permBanMembers     int64 = discordgo.PermissionBanMembers

	minZero    = 0.0
	minOne     = 1.0
	minOptions = 2.0
	maxOptions = 10.0
	maxPurge   = 100.0
	maxRange   = 1000.0
)

func billNumberOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "bill_number",
		Description: description,
		MinValue:    &minOne,
		Required:    true,
	}
}

func textOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "text",
		Description: description,
		Required:    true,
	}
}

func optionsOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "options",
		Description: "Number of options to vote on (2-10)",
		MinValue:    &minOptions,
		MaxValue:    maxOptions,
		Required:    true,
	}
}

func commentOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "comment",
		Description: "Optional comment added to the announcement",
	}
}

func resolution(name, description string) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		Options:     []*discordgo.ApplicationCommandOption{billNumberOption("Number of the bill"), commentOption()},
	}
}

func messageIDOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "message_id",
		Description: "ID of the message to react to",
		Required:    true,
	}
}

func amountOption(description string, limit float64, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "amount",
		Description: description,
		MinValue:    &minOne,
		MaxValue:    limit,
		Required:    required,
	}
}

func anchorOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "message_id",
		Description: "ID of the message to purge around",
		Required:    true,
	}
}

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    true,
	}
}

var commandDefinitions = map[string]*discordgo.ApplicationCommand{
	CommandBill: {
		Name:        CommandBill,
		Description: "Assembles a bill with the given text.",
		Options:     []*discordgo.ApplicationCommandOption{textOption("Wording of the bill")},
	},
	CommandAmendment: {
		Name:        CommandAmendment,
		Description: "Assembles an amendment with the given text and bill_number.",
		Options: []*discordgo.ApplicationCommandOption{
			billNumberOption("Number of the amended bill"),
			textOption("Wording of the amendment"),
		},
	},
	CommandOption: {
		Name:        CommandOption,
		Description: "Assembles a bill voted on with numbered options.",
		Options: []*discordgo.ApplicationCommandOption{
			optionsOption(),
			textOption("Wording of the bill, listing the options"),
		},
	},
	CommandAmendmentOption: {
		Name:        CommandAmendmentOption,
		Description: "Assembles an amendment voted on with numbered options.",
		Options: []*discordgo.ApplicationCommandOption{
			billNumberOption("Number of the amended bill"),
			optionsOption(),
			textOption("Wording of the amendment, listing the options"),
		},
	},
	CommandEdit: {
		Name:        CommandEdit,
		Description: "Replaces the wording of one of your open bills.",
		Options: []*discordgo.ApplicationCommandOption{
			billNumberOption("Number of the bill"),
			textOption("New wording"),
		},
	},
	CommandIndex: {
		Name:                     CommandIndex,
		Description:              "Overrides the saved bill index. Negative values are rejected.",
		DefaultMemberPermissions: &permAdministrator,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "new_index",
				Description: "Last issued bill number, 0 or greater",
				MinValue:    &minZero,
				Required:    true,
			},
		},
	},
	CommandPass:         resolution(CommandPass, "Passes the bill with the given number."),
	CommandFail:         resolution(CommandFail, "Fails the bill with the given number."),
	CommandVeto:         resolution(CommandVeto, "Vetoes the bill with the given number."),
	CommandForceThrough: resolution(CommandForceThrough, "Forces the bill with the given number through."),
	CommandVoid:         resolution(CommandVoid, "Voids the bill with the given number."),
	CommandUnvoid:       resolution(CommandUnvoid, "Unvoids the bill with the given number."),
	CommandWithdraw:     resolution(CommandWithdraw, "Withdraws the bill with the given number."),

	CommandMeme: {
		Name:        CommandMeme,
		Description: "Adds the meme voting reactions to the referenced message.",
		Options:     []*discordgo.ApplicationCommandOption{messageIDOption()},
	},
	CommandVote: {
		Name:        CommandVote,
		Description: "Adds yes, no and abstain reactions to the referenced message.",
		Options:     []*discordgo.ApplicationCommandOption{messageIDOption()},
	},

	CommandSave: {
		Name:                     CommandSave,
		Description:              "Saves all the messages sent by the given user.",
		DefaultMemberPermissions: &permAdministrator,
		Options:                  []*discordgo.ApplicationCommandOption{userOption("User whose messages to save")},
	},
	CommandPurge: {
		Name:                     CommandPurge,
		Description:              "Purges the amount of messages specified.",
		DefaultMemberPermissions: &permManageMessages,
		Options:                  []*discordgo.ApplicationCommandOption{amountOption("Number of messages to delete", maxPurge, true)},
	},
	CommandPurgeAfter: {
		Name:                     CommandPurgeAfter,
		Description:              "Purges messages after the given message (no amount purges all).",
		DefaultMemberPermissions: &permManageMessages,
		Options: []*discordgo.ApplicationCommandOption{
			anchorOption(),
			amountOption("Number of messages to delete", maxRange, false),
		},
	},
	CommandPurgeBefore: {
		Name:                     CommandPurgeBefore,
		Description:              "Purges the amount of messages specified before the given message.",
		DefaultMemberPermissions: &permManageMessages,
		Options: []*discordgo.ApplicationCommandOption{
			anchorOption(),
			amountOption("Number of messages to delete", maxRange, true),
		},
	},
	CommandPurgeUserChannel: {
		Name:                     CommandPurgeUserChannel,
		Description:              "Purges messages from the given user in this channel (no amount purges all).",
		DefaultMemberPermissions: &permManageMessages,
		Options: []*discordgo.ApplicationCommandOption{
			userOption("User whose messages to delete"),
			amountOption("Number of messages to delete", maxRange, false),
		},
	},
	CommandPurgeUserAll: {
		Name:                     CommandPurgeUserAll,
		Description:              "Purges all messages from the given user in every channel. Slow.",
		DefaultMemberPermissions: &permManageMessages,
		Options:                  []*discordgo.ApplicationCommandOption{userOption("User whose messages to delete")},
	},
	CommandWarn: {
		Name:                     CommandWarn,
		Description:              "Warns a user.",
		DefaultMemberPermissions: &permBanMembers,
		Options: []*discordgo.ApplicationCommandOption{
			userOption("User to warn"),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "reason",
				Description: "Reason for the warning",
				Required:    true,
			},
		},
	},
	CommandDelWarn: {
		Name:                     CommandDelWarn,
		Description:              "Deletes a warning.",
		DefaultMemberPermissions: &permBanMembers,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "warning_id",
				Description: "ID of the warning",
				Required:    true,
			},
		},
	},
	CommandWarnings: {
		Name:                     CommandWarnings,
		Description:              "Returns all active warnings for the user.",
		DefaultMemberPermissions: &permBanMembers,
		Options:                  []*discordgo.ApplicationCommandOption{userOption("User to look up")},
	},
	CommandAllWarnings: {
		Name:                     CommandAllWarnings,
		Description:              "Returns all active warnings.",
		DefaultMemberPermissions: &permBanMembers,
	},
	CommandMyWarnings: {
		Name:        CommandMyWarnings,
		Description: "Returns all of your active warnings.",
	},

	CommandMinecraft: {
		Name:        CommandMinecraft,
		Description: "Minecraft server commands.",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "status", Description: "Responds with the Minecraft server status."},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "info", Description: "Responds with the Minecraft server information."},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "start", Description: "Starts the Minecraft server."},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "stop", Description: "Stops the Minecraft server. (Staff Only)"},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "restart", Description: "Restarts the Minecraft server. (Staff Only)"},
		},
	},
}

// RegisterSlashCommands registers the named slash commands for a guild.
func RegisterSlashCommands(s *discordgo.Session, guildID string, names ...string) error {
	if guildID == "" {
		return fmt.Errorf("discord: guildID is required to register slash commands")
	}

	var failures []string
	for _, name := range names {
		definition, ok := commandDefinitions[name]
		if !ok {
			log.Printf("discord: unknown slash command %q", name)
			continue
		}

		_, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, definition)
		if err != nil {
			if isDuplicateCommandError(err) {
				log.Printf("discord: slash command %q already registered", name)
				continue
			}
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			log.Printf("discord: failed to register command %q: %v", name, err)
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("discord: slash command registration errors: %s", strings.Join(failures, "; "))
	}

	return nil
}

// Definition returns the registered definition for name, or nil.
func Definition(name string) *discordgo.ApplicationCommand {
	return commandDefinitions[name]
}

func isDuplicateCommandError(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			msg := strings.ToLower(restErr.Message.Message)
			if strings.Contains(msg, "already exists") {
				return true
			}
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "50035") && strings.Contains(msg, "already exists")
}
