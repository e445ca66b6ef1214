package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const configDir = ".adkchat"
const configFile = "config.json"

type Config struct {
	Server      string `json:"server"`
	Agent       string `json:"agent,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	LastSession string `json:"last_session,omitempty"`
	Profile     string `json:"-"`
}

func configPath(profile string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot find home directory: %w", err)
	}
	filename := configFile
	if profile != "" {
		filename = fmt.Sprintf("config-%s.json", profile)
	}
	return filepath.Join(home, configDir, filename), nil
}

// Dir returns the per-user state directory (~/.adkchat), creating it if
// needed. Log files live under it.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot find home directory: %w", err)
	}
	dir := filepath.Join(home, configDir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("creating state directory: %w", err)
	}
	return dir, nil
}

func Load(profile string) (*Config, error) {
	// A .env in the working directory seeds the environment overrides.
	// Missing file is fine.
	_ = godotenv.Load()

	path, err := configPath(profile)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Profile: profile}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
		cfg.Profile = profile
	}

	if v := os.Getenv("ADK_API_BASE"); v != "" {
		cfg.Server = v
	}
	if v := os.Getenv("ADK_CHAT_USER"); v != "" {
		cfg.UserID = v
	}
	if cfg.UserID == "" {
		cfg.UserID = "user"
	}
	return cfg, nil
}

func (c *Config) Save() error {
	path, err := configPath(c.Profile)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) profileFlag() string {
	if c.Profile == "" {
		return ""
	}
	return " --profile " + c.Profile
}

func (c *Config) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("server not set. Run: adkchat%s set server <url>", c.profileFlag())
	}
	return nil
}

func (c *Config) ValidateAgent() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Agent == "" {
		return fmt.Errorf("agent not set. Run: adkchat%s set agent <name> (see: adkchat agents)", c.profileFlag())
	}
	return nil
}

func ListProfiles() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot find home directory: %w", err)
	}
	dir := filepath.Join(home, configDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config directory: %w", err)
	}
	var profiles []string
	for _, e := range entries {
		name := e.Name()
		if name == configFile {
			profiles = append(profiles, "default")
			continue
		}
		if strings.HasPrefix(name, "config-") && strings.HasSuffix(name, ".json") {
			profiles = append(profiles, strings.TrimSuffix(strings.TrimPrefix(name, "config-"), ".json"))
		}
	}
	return profiles, nil
}

func ProfileName(profile string) string {
	if profile == "" {
		return "default"
	}
	return profile
}
