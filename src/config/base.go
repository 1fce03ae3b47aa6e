package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/etbot-dev/etbot/src/data"
	"gorm.io/gorm"
)

// Base contains common configuration fields
type Base struct {
	Token    string
	GuildID  string
	MySQLDSN string
	RedisURL string
}

// LoadBase loads common configuration (discord token, guild ID, MySQL DSN)
func LoadBase(db *gorm.DB) Base {
	if db != nil {
		if err := data.LoadSettings(db); err != nil {
			log.Printf("config: settings unavailable, using environment: %v", err)
		}
	}

	dsn, err := data.GetMySQLDSN()
	if err != nil {
		log.Printf("config: %v", err)
	}

	return Base{
		Token:    GetSetting("discord_token", "DISCORD_TOKEN", ""),
		GuildID:  GetSetting("guild_id", "GUILD_ID", ""),
		MySQLDSN: dsn,
		RedisURL: GetSetting("redis_url", "REDIS_URL", ""),
	}
}

// Roles holds the guild role IDs the bot gates commands on.
type Roles struct {
	Senator       string
	Tribune       string
	Emperor       string
	Viceroy       string
	Palatine      string
	RoyalFalconer string
}

// Staff returns the roles allowed to void bills and manage the game server.
func (r Roles) Staff() []string {
	return []string{r.Emperor, r.Viceroy, r.Palatine}
}

// ExtendedStaff adds the royal falconer to Staff.
func (r Roles) ExtendedStaff() []string {
	return append(r.Staff(), r.RoyalFalconer)
}

// LoadRoles reads role IDs from settings.
func LoadRoles() Roles {
	return Roles{
		Senator:       GetSetting("senator_role_id", "SENATOR_ROLE_ID", ""),
		Tribune:       GetSetting("tribune_role_id", "TRIBUNE_ROLE_ID", ""),
		Emperor:       GetSetting("emperor_role_id", "EMPEROR_ROLE_ID", ""),
		Viceroy:       GetSetting("viceroy_role_id", "VICEROY_ROLE_ID", ""),
		Palatine:      GetSetting("palatine_role_id", "PALATINE_ROLE_ID", ""),
		RoyalFalconer: GetSetting("royal_falconer_role_id", "ROYAL_FALCONER_ROLE_ID", ""),
	}
}

// GetSetting retrieves a setting with env fallback
func GetSetting(name, envKey, defaultValue string) string {
	val := data.GetSetting(name)
	if val == "" && envKey != "" {
		val = os.Getenv(envKey)
	}
	if val == "" {
		val = defaultValue
	}
	return val
}

func getBoolSetting(settingKey, envKey string, defaultValue bool) bool {
	if v := data.GetSetting(settingKey); v != "" {
		return parseBoolDefault(v, defaultValue)
	}
	if envKey != "" {
		if v := os.Getenv(envKey); v != "" {
			return parseBoolDefault(v, defaultValue)
		}
	}
	return defaultValue
}

func parseBoolDefault(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getIntSetting(settingKey, envKey string, defaultValue int) int {
	raw := GetSetting(settingKey, envKey, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("config: %s=%q is not an integer, using %d", settingKey, raw, defaultValue)
		return defaultValue
	}
	return n
}

func getDurationSetting(settingKey, envKey string, defaultValue time.Duration) time.Duration {
	raw := GetSetting(settingKey, envKey, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("config: %s=%q is not a duration, using %v", settingKey, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getListSetting(settingKey, envKey string, defaultValue []string) []string {
	raw := GetSetting(settingKey, envKey, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
