package gameserver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Panel endpoints of the hosting provider. The obfuscated paths are the
// base64 of "login" and "execute".
const (
	panelLoginPage   = "/login"
	panelLoginSubmit = "/~bG9naW4="
	panelExecute     = "/~ZXhlY3V0ZQ=="
)

// PanelAction is a power action understood by the hosting panel.
type PanelAction string

const (
	ActionStart   PanelAction = "start"
	ActionStop    PanelAction = "stop"
	ActionRestart PanelAction = "restart"
)

// PanelClient logs into the hosting panel and posts power actions.
type PanelClient struct {
	BaseURL  string
	Email    string
	Password string
	OrderID  string
	Timeout  time.Duration
}

// Configured reports whether credentials are present.
func (p *PanelClient) Configured() bool {
	return p.BaseURL != "" && p.Email != "" && p.Password != "" && p.OrderID != ""
}

// Execute runs action with a fresh cookie session.
func (p *PanelClient) Execute(ctx context.Context, action PanelAction) error {
	client, err := p.login(ctx)
	if err != nil {
		return err
	}
	form := url.Values{"action": {string(action)}, "order": {p.OrderID}}
	return p.postForm(ctx, client, panelExecute, form)
}

func (p *PanelClient) login(ctx context.Context) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &http.Client{Jar: jar, Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint(panelLoginPage), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gameserver: panel login page: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	form := url.Values{"email": {p.Email}, "password": {p.Password}, "stay": {"1"}}
	if err := p.postForm(ctx, client, panelLoginSubmit, form); err != nil {
		return nil, fmt.Errorf("gameserver: panel login: %w", err)
	}
	return client, nil
}

func (p *PanelClient) postForm(ctx context.Context, client *http.Client, path string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(path), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gameserver: panel %s returned %s", path, resp.Status)
	}
	return nil
}

func (p *PanelClient) endpoint(path string) string {
	return strings.TrimRight(p.BaseURL, "/") + path
}
