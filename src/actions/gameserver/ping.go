package gameserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tnze/go-mc/bot"
)

// Status is the subset of a server list ping response the bot reports.
type Status struct {
	Online  int
	Max     int
	Version string
	Latency time.Duration
}

type statusResponse struct {
	Version struct {
		Name string `json:"name"`
	} `json:"version"`
	Players struct {
		Max    int `json:"max"`
		Online int `json:"online"`
	} `json:"players"`
}

// Pinger queries a Java edition server with the server list ping protocol.
// An address without a port is resolved through its _minecraft._tcp SRV
// record by go-mc before falling back to the default port.
type Pinger struct{}

func (Pinger) Ping(ctx context.Context, address string) (*Status, error) {
	raw, latency, err := bot.PingAndListContext(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("gameserver: ping %s: %w", address, err)
	}
	return decodeStatus(raw, latency)
}

func decodeStatus(raw []byte, latency time.Duration) (*Status, error) {
	var resp statusResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("gameserver: decode status: %w", err)
	}
	return &Status{
		Online:  resp.Players.Online,
		Max:     resp.Players.Max,
		Version: resp.Version.Name,
		Latency: latency,
	}, nil
}
