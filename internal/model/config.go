package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DataConfig holds the locations of the flat-file stores.
type DataConfig struct {
	// TasksFile is the JSONL task store path.
	TasksFile string `mapstructure:"tasks_file" yaml:"tasks_file"`

	// JournalFile is the append-only JSONL personal log path.
	JournalFile string `mapstructure:"journal_file" yaml:"journal_file"`

	// IndexFile is the SQLite retrieval index path.
	IndexFile string `mapstructure:"index_file" yaml:"index_file"`
}

// SchedulerConfig holds settings for the background reminder check.
type SchedulerConfig struct {
	// IntervalSec is how often (in seconds) the reminder check runs.
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`

	// Enabled controls whether the background check starts at all.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// AIConfig holds settings for the assistant integration.
type AIConfig struct {
	Model     string `mapstructure:"model" yaml:"model"`
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`

	// ContextChunks is how many retrieved log chunks are included in
	// an assistant prompt.
	ContextChunks int `mapstructure:"context_chunks" yaml:"context_chunks"`
}

// NotifyConfig selects and configures the notification channel.
type NotifyConfig struct {
	// Channel is "console" or "imap".
	Channel string `mapstructure:"channel" yaml:"channel"`

	// IMAP settings, used when Channel is "imap". The notifier appends
	// a composed message to Mailbox on the configured server.
	IMAPHost    string `mapstructure:"imap_host" yaml:"imap_host"`
	IMAPPort    string `mapstructure:"imap_port" yaml:"imap_port"`
	IMAPUser    string `mapstructure:"imap_user" yaml:"imap_user"`
	IMAPMailbox string `mapstructure:"imap_mailbox" yaml:"imap_mailbox"`
	IMAPTLS     bool   `mapstructure:"imap_tls" yaml:"imap_tls"`

	// FromAddress is the sender address on composed notification mail.
	FromAddress string `mapstructure:"from_address" yaml:"from_address"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Data      DataConfig      `mapstructure:"data" yaml:"data"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	AI        AIConfig        `mapstructure:"ai" yaml:"ai"`
	Notify    NotifyConfig    `mapstructure:"notify" yaml:"notify"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/angel/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "angel", "config.yaml")
}

// defaultDataDir returns the directory holding the flat-file stores.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "angel")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dataDir := defaultDataDir()
	return &AppConfig{
		Data: DataConfig{
			TasksFile:   filepath.Join(dataDir, "tasks_data.jsonl"),
			JournalFile: filepath.Join(dataDir, "journal_data.jsonl"),
			IndexFile:   filepath.Join(dataDir, "retrieval.db"),
		},
		Scheduler: SchedulerConfig{
			IntervalSec: 60,
			Enabled:     true,
		},
		AI: AIConfig{
			Model:         "gemini-1.5-flash-latest",
			MaxTokens:     2048,
			ContextChunks: 5,
		},
		Notify: NotifyConfig{
			Channel:     "console",
			IMAPPort:    "993",
			IMAPMailbox: "INBOX",
			IMAPTLS:     true,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("data.tasks_file", defaults.Data.TasksFile)
	v.SetDefault("data.journal_file", defaults.Data.JournalFile)
	v.SetDefault("data.index_file", defaults.Data.IndexFile)
	v.SetDefault("scheduler.interval_sec", defaults.Scheduler.IntervalSec)
	v.SetDefault("scheduler.enabled", defaults.Scheduler.Enabled)
	v.SetDefault("ai.model", defaults.AI.Model)
	v.SetDefault("ai.max_tokens", defaults.AI.MaxTokens)
	v.SetDefault("ai.context_chunks", defaults.AI.ContextChunks)
	v.SetDefault("notify.channel", defaults.Notify.Channel)
	v.SetDefault("notify.imap_port", defaults.Notify.IMAPPort)
	v.SetDefault("notify.imap_mailbox", defaults.Notify.IMAPMailbox)
	v.SetDefault("notify.imap_tls", defaults.Notify.IMAPTLS)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Scheduler.IntervalSec <= 0 {
		cfg.Scheduler.IntervalSec = defaults.Scheduler.IntervalSec
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("data", cfg.Data)
	v.Set("scheduler", cfg.Scheduler)
	v.Set("ai", cfg.AI)
	v.Set("notify", cfg.Notify)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
