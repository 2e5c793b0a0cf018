package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      Log      `yaml:"log"`
	DB       DB       `yaml:"db"`
	Server   Server   `yaml:"server"`
	Realtime Realtime `yaml:"realtime"`
	Chat     Chat     `yaml:"chat"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

type DB struct {
	// Path to the sqlite database file
	Path string `yaml:"path" example:"data/umate.db"`
}

type Server struct {
	// Listen address
	Addr string `yaml:"addr" example:":3005"`
	// Allowed websocket origins, empty allows any
	AllowedOrigins []string `yaml:"allowed_origins"`
	// Max concurrent websocket connections per source IP
	MaxConnectionsPerIP int `yaml:"max_connections_per_ip" example:"3"`
	// Max REST requests per minute per IP
	RequestsPerMinute int `yaml:"requests_per_minute" example:"100"`
}

type Realtime struct {
	// Realtime API websocket url
	URL string `yaml:"url" example:"wss://api.openai.com/v1/realtime" validate:"required"`
	// Realtime model name
	Model string `yaml:"model" example:"gpt-4o-mini-realtime-preview-2024-12-17" validate:"required"`
	// API token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// Assistant voice
	Voice string `yaml:"voice" example:"alloy"`
}

type Chat struct {
	// Number of prior turns loaded when priming a session
	HistoryLimit int `yaml:"history_limit" example:"20"`
	// Interval between knowledge snapshot rebuilds, e.g. "6h"
	RefreshInterval string `yaml:"knowledge_refresh_interval" example:"6h"`
	// Parsed form of RefreshInterval
	KnowledgeRefreshInterval time.Duration `yaml:"-"`
	// Max user messages per minute per session
	MessagesPerMinute int `yaml:"messages_per_minute" example:"30"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if token := os.Getenv("REALTIME_API_TOKEN"); token != "" {
		result.Realtime.Token = token
	}

	if result.DB.Path == "" {
		result.DB.Path = "data/umate.db"
	}
	if result.Server.Addr == "" {
		result.Server.Addr = ":3005"
	}
	if result.Server.MaxConnectionsPerIP == 0 {
		result.Server.MaxConnectionsPerIP = 3
	}
	if result.Server.RequestsPerMinute == 0 {
		result.Server.RequestsPerMinute = 100
	}
	if result.Realtime.Voice == "" {
		result.Realtime.Voice = "alloy"
	}
	if result.Chat.HistoryLimit == 0 {
		result.Chat.HistoryLimit = 20
	}
	if result.Chat.RefreshInterval == "" {
		result.Chat.KnowledgeRefreshInterval = 6 * time.Hour
	} else {
		interval, err := time.ParseDuration(result.Chat.RefreshInterval)
		if err != nil {
			return nil, oops.Errorf("failed to parse knowledge refresh interval: %w", err)
		}
		result.Chat.KnowledgeRefreshInterval = interval
	}
	if result.Chat.MessagesPerMinute == 0 {
		result.Chat.MessagesPerMinute = 30
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
