package config

import (
	"time"

	"gorm.io/gorm"
)

// SenateConfig holds the bill workflow configuration.
type SenateConfig struct {
	Base
	Roles
	VotingChannelID        string
	SenateChannelID        string
	PassedBillsChannelID   string
	StaffCommandsChannelID string
	BotLogChannelID        string
	PageSize               int
	Enabled                bool
}

// LoadSenateConfig loads senate configuration
func LoadSenateConfig(db *gorm.DB) SenateConfig {
	return SenateConfig{
		Base:                   LoadBase(db),
		Roles:                  LoadRoles(),
		VotingChannelID:        GetSetting("senatorial_voting_channel_id", "SENATORIAL_VOTING_CHANNEL_ID", ""),
		SenateChannelID:        GetSetting("senate_channel_id", "SENATE_CHANNEL_ID", ""),
		PassedBillsChannelID:   GetSetting("passed_bills_channel_id", "PASSED_BILLS_CHANNEL_ID", ""),
		StaffCommandsChannelID: GetSetting("staff_bot_commands_channel_id", "STAFF_BOT_COMMANDS_CHANNEL_ID", ""),
		BotLogChannelID:        GetSetting("bot_log_channel_id", "BOT_LOG_CHANNEL_ID", ""),
		PageSize:               getIntSetting("senate_history_page_size", "SENATE_HISTORY_PAGE_SIZE", 100),
		Enabled:                getBoolSetting("enable_senate", "ENABLE_SENATE", true),
	}
}

// MemeConfig holds meme voting configuration
type MemeConfig struct {
	Base
	MemeChannelIDs  []string
	NoiseChannelIDs []string
	NoiseDelay      time.Duration
	Enabled         bool
}

// LoadMemeConfig loads meme voting configuration
func LoadMemeConfig(db *gorm.DB) MemeConfig {
	return MemeConfig{
		Base:            LoadBase(db),
		MemeChannelIDs:  getListSetting("meme_channel_ids", "MEME_CHANNEL_IDS", nil),
		NoiseChannelIDs: getListSetting("noise_channel_ids", "NOISE_CHANNEL_IDS", nil),
		NoiseDelay:      getDurationSetting("noise_delete_delay", "NOISE_DELETE_DELAY", time.Hour),
		Enabled:         getBoolSetting("enable_memes", "ENABLE_MEMES", true),
	}
}

// ModerationConfig holds moderation configuration
type ModerationConfig struct {
	Base
	Roles
	BotLogChannelID        string
	ModerationLogChannelID string
	TranscriptDir          string
	WarningTTL             time.Duration
	PalatinePingAt         int
	Enabled                bool
}

// LoadModerationConfig loads moderation configuration
func LoadModerationConfig(db *gorm.DB) ModerationConfig {
	return ModerationConfig{
		Base:                   LoadBase(db),
		Roles:                  LoadRoles(),
		BotLogChannelID:        GetSetting("bot_log_channel_id", "BOT_LOG_CHANNEL_ID", ""),
		ModerationLogChannelID: GetSetting("moderation_log_channel_id", "MODERATION_LOG_CHANNEL_ID", ""),
		TranscriptDir:          GetSetting("transcript_dir", "TRANSCRIPT_DIR", "transcripts"),
		WarningTTL:             getDurationSetting("warning_ttl", "WARNING_TTL", 90*24*time.Hour),
		PalatinePingAt:         getIntSetting("warning_ping_threshold", "WARNING_PING_THRESHOLD", 3),
		Enabled:                getBoolSetting("enable_moderation", "ENABLE_MODERATION", true),
	}
}

// GameServerConfig holds Minecraft integration configuration
type GameServerConfig struct {
	Base
	Roles
	Address       string
	InfoChannelID string
	InfoMessageID string
	PanelURL      string
	PanelEmail    string
	PanelPassword string
	PanelOrderID  string
	StatusTimeout time.Duration
	Enabled       bool
}

// LoadGameServerConfig loads Minecraft integration configuration
func LoadGameServerConfig(db *gorm.DB) GameServerConfig {
	return GameServerConfig{
		Base:          LoadBase(db),
		Roles:         LoadRoles(),
		Address:       GetSetting("minecraft_address", "MINECRAFT_ADDRESS", ""),
		InfoChannelID: GetSetting("minecraft_channel_id", "MINECRAFT_CHANNEL_ID", ""),
		InfoMessageID: GetSetting("minecraft_info_message_id", "MINECRAFT_INFO_MESSAGE_ID", ""),
		PanelURL:      GetSetting("minecraft_panel_url", "MINECRAFT_PANEL_URL", ""),
		PanelEmail:    GetSetting("minecraft_panel_email", "MINECRAFT_PANEL_EMAIL", ""),
		PanelPassword: GetSetting("minecraft_panel_password", "MINECRAFT_PANEL_PASSWORD", ""),
		PanelOrderID:  GetSetting("minecraft_panel_order", "MINECRAFT_PANEL_ORDER", ""),
		StatusTimeout: getDurationSetting("minecraft_status_timeout", "MINECRAFT_STATUS_TIMEOUT", 5*time.Second),
		Enabled:       getBoolSetting("enable_minecraft", "ENABLE_MINECRAFT", false),
	}
}

// APIConfig holds admin API configuration
type APIConfig struct {
	Base
	ListenAddr        string
	JWTSecret         string
	AdminPasswordHash string
	AllowOrigins      []string
	RateLimit         int
	RateWindow        time.Duration
	Enabled           bool
}

// LoadAPIConfig loads admin API configuration
func LoadAPIConfig(db *gorm.DB) APIConfig {
	return APIConfig{
		Base:              LoadBase(db),
		ListenAddr:        GetSetting("api_listen_addr", "API_LISTEN_ADDR", ":8080"),
		JWTSecret:         GetSetting("jwt_secret", "JWT_SECRET", ""),
		AdminPasswordHash: GetSetting("api_admin_password_hash", "API_ADMIN_PASSWORD_HASH", ""),
		AllowOrigins:      getListSetting("api_allow_origins", "API_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
		RateLimit:         getIntSetting("api_rate_limit", "API_RATE_LIMIT", 60),
		RateWindow:        getDurationSetting("api_rate_window", "API_RATE_WINDOW", time.Minute),
		Enabled:           getBoolSetting("enable_api", "ENABLE_API", false),
	}
}
