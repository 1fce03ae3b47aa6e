package gameserver

import (
	"fmt"
	"time"
)

const panelBudget = 30 * time.Second

var powerMessages = map[PanelAction]string{
	ActionStart:   "Starting Minecraft server...",
	ActionStop:    "Stopping Minecraft server...",
	ActionRestart: "Restarting Minecraft server...",
}

func statusMessage(status *Status, err error) string {
	if err != nil || status == nil {
		return "The Minecraft server is offline."
	}
	return fmt.Sprintf("The server has %d players and replied in %d ms.", status.Online, status.Latency.Milliseconds())
}
