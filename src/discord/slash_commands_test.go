package discord

import (
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestEveryModuleCommandIsDefined(t *testing.T) {
	groups := map[string][]string{
		"senate":     SenateCommands,
		"memes":      MemeCommands,
		"moderation": ModerationCommands,
		"gameserver": GameServerCommands,
	}
	seen := map[string]bool{}
	for group, names := range groups {
		for _, name := range names {
			def := Definition(name)
			if def == nil {
				t.Fatalf("%s: command %q has no definition", group, name)
			}
			if def.Name != name {
				t.Fatalf("definition for %q is named %q", name, def.Name)
			}
			if seen[name] {
				t.Fatalf("command %q served by two modules", name)
			}
			seen[name] = true
		}
	}
	if len(seen) != len(commandDefinitions) {
		t.Fatalf("%d definitions but %d commands served", len(commandDefinitions), len(seen))
	}
}

func TestIndexCommandIsAdminOnly(t *testing.T) {
	def := Definition(CommandIndex)
	if def.DefaultMemberPermissions == nil || *def.DefaultMemberPermissions != discordgo.PermissionAdministrator {
		t.Fatalf("index permissions = %v", def.DefaultMemberPermissions)
	}
}

func TestIndexCommandRejectsNegativeValues(t *testing.T) {
	def := Definition(CommandIndex)
	opt := def.Options[0]
	if opt.MinValue == nil || *opt.MinValue != 0 {
		t.Fatalf("new_index min value = %v", opt.MinValue)
	}
	if !strings.Contains(def.Description, "Negative values are rejected") {
		t.Fatalf("description %q does not mention the lower bound", def.Description)
	}
}

func TestModerationCommandPermissions(t *testing.T) {
	tests := map[string]int64{
		CommandSave:             discordgo.PermissionAdministrator,
		CommandPurge:            discordgo.PermissionManageMessages,
		CommandPurgeAfter:       discordgo.PermissionManageMessages,
		CommandPurgeBefore:      discordgo.PermissionManageMessages,
		CommandPurgeUserChannel: discordgo.PermissionManageMessages,
		CommandPurgeUserAll:     discordgo.PermissionManageMessages,
		CommandAllWarnings:      discordgo.PermissionBanMembers,
	}
	for name, want := range tests {
		def := Definition(name)
		if def.DefaultMemberPermissions == nil || *def.DefaultMemberPermissions != want {
			t.Fatalf("%s permissions = %v, want %d", name, def.DefaultMemberPermissions, want)
		}
	}
}

func TestIsDuplicateCommandError(t *testing.T) {
	dup := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: 50035, Message: "Command already exists"}}
	if !isDuplicateCommandError(dup) {
		t.Fatal("duplicate REST error not detected")
	}
	if isDuplicateCommandError(errors.New("HTTP 500")) {
		t.Fatal("unrelated error treated as duplicate")
	}
}
