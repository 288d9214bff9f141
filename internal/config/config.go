// Package config assembles the server configuration from an optional YAML
// file with environment variable overrides. Precedence: built-in defaults,
// then the file, then the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	HTTPAddr string

	CatalogPath   string
	ModelPath     string
	NotesPath     string
	RemindersPath string

	Threshold   float64
	MaxFeatures int

	DBDSN string

	MQTTBrokerURL   string
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTTopicPrefix string
	PresenceTTL     time.Duration

	TranscribeBaseURL string
	TranscribeTimeout time.Duration

	HistoryLimit int
}

// fileConfig mirrors ServerConfig for the YAML layer. Zero values mean "not
// set" and leave the default in place.
type fileConfig struct {
	HTTPAddr string `yaml:"http_addr"`

	CatalogPath   string `yaml:"catalog_path"`
	ModelPath     string `yaml:"model_path"`
	NotesPath     string `yaml:"notes_path"`
	RemindersPath string `yaml:"reminders_path"`

	Threshold   float64 `yaml:"threshold"`
	MaxFeatures int     `yaml:"max_features"`

	DBDSN string `yaml:"db_dsn"`

	MQTT struct {
		BrokerURL          string `yaml:"broker_url"`
		ClientID           string `yaml:"client_id"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		TopicPrefix        string `yaml:"topic_prefix"`
		PresenceTTLSeconds int    `yaml:"presence_ttl_seconds"`
	} `yaml:"mqtt"`

	Transcribe struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"transcribe"`

	HistoryLimit int `yaml:"history_limit"`
}

// LoadServerConfig reads ASISTAN_CONFIG_FILE when set, then applies
// environment overrides.
func LoadServerConfig(fsys afero.Fs) (ServerConfig, error) {
	cfg := ServerConfig{
		HTTPAddr:          ":9020",
		CatalogPath:       "data/commands.json",
		ModelPath:         "data/model.json",
		NotesPath:         "data/notes.json",
		RemindersPath:     "data/reminders.json",
		Threshold:         0.3,
		MaxFeatures:       500,
		MQTTClientID:      "asistan-server",
		MQTTTopicPrefix:   "asistan",
		PresenceTTL:       60 * time.Second,
		TranscribeTimeout: 10 * time.Second,
		HistoryLimit:      50,
	}

	if path := os.Getenv("ASISTAN_CONFIG_FILE"); path != "" {
		if err := applyFile(fsys, path, &cfg); err != nil {
			return ServerConfig{}, err
		}
	}

	applyEnv(&cfg)

	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return ServerConfig{}, fmt.Errorf("threshold must be within [0, 1], got %v", cfg.Threshold)
	}
	if cfg.MaxFeatures <= 0 {
		return ServerConfig{}, fmt.Errorf("max_features must be positive, got %d", cfg.MaxFeatures)
	}

	return cfg, nil
}

func applyFile(fsys afero.Fs, path string, cfg *ServerConfig) error {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.HTTPAddr, fc.HTTPAddr)
	setString(&cfg.CatalogPath, fc.CatalogPath)
	setString(&cfg.ModelPath, fc.ModelPath)
	setString(&cfg.NotesPath, fc.NotesPath)
	setString(&cfg.RemindersPath, fc.RemindersPath)
	if fc.Threshold > 0 {
		cfg.Threshold = fc.Threshold
	}
	if fc.MaxFeatures > 0 {
		cfg.MaxFeatures = fc.MaxFeatures
	}
	setString(&cfg.DBDSN, fc.DBDSN)
	setString(&cfg.MQTTBrokerURL, fc.MQTT.BrokerURL)
	setString(&cfg.MQTTClientID, fc.MQTT.ClientID)
	setString(&cfg.MQTTUsername, fc.MQTT.Username)
	setString(&cfg.MQTTPassword, fc.MQTT.Password)
	setString(&cfg.MQTTTopicPrefix, fc.MQTT.TopicPrefix)
	if fc.MQTT.PresenceTTLSeconds > 0 {
		cfg.PresenceTTL = time.Duration(fc.MQTT.PresenceTTLSeconds) * time.Second
	}
	setString(&cfg.TranscribeBaseURL, fc.Transcribe.BaseURL)
	if fc.Transcribe.TimeoutSeconds > 0 {
		cfg.TranscribeTimeout = time.Duration(fc.Transcribe.TimeoutSeconds) * time.Second
	}
	if fc.HistoryLimit > 0 {
		cfg.HistoryLimit = fc.HistoryLimit
	}

	return nil
}

func applyEnv(cfg *ServerConfig) {
	setString(&cfg.HTTPAddr, os.Getenv("ASISTAN_HTTP_ADDR"))
	setString(&cfg.CatalogPath, os.Getenv("ASISTAN_CATALOG_PATH"))
	setString(&cfg.ModelPath, os.Getenv("ASISTAN_MODEL_PATH"))
	setString(&cfg.NotesPath, os.Getenv("ASISTAN_NOTES_PATH"))
	setString(&cfg.RemindersPath, os.Getenv("ASISTAN_REMINDERS_PATH"))
	if v := os.Getenv("ASISTAN_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Threshold = f
		}
	}
	if n := getenvIntDefault("ASISTAN_MAX_FEATURES", 0); n > 0 {
		cfg.MaxFeatures = n
	}
	setString(&cfg.DBDSN, os.Getenv("DB_DSN"))
	setString(&cfg.MQTTBrokerURL, os.Getenv("MQTT_BROKER_URL"))
	setString(&cfg.MQTTClientID, os.Getenv("ASISTAN_MQTT_CLIENT_ID"))
	setString(&cfg.MQTTUsername, os.Getenv("MQTT_USERNAME"))
	setString(&cfg.MQTTPassword, os.Getenv("MQTT_PASSWORD"))
	setString(&cfg.MQTTTopicPrefix, os.Getenv("MQTT_TOPIC_PREFIX"))
	if n := getenvIntDefault("ASISTAN_PRESENCE_TTL_SECONDS", 0); n > 0 {
		cfg.PresenceTTL = time.Duration(n) * time.Second
	}
	setString(&cfg.TranscribeBaseURL, strings.TrimRight(os.Getenv("TRANSCRIBE_BASE_URL"), "/"))
	if n := getenvIntDefault("TRANSCRIBE_TIMEOUT_SECONDS", 0); n > 0 {
		cfg.TranscribeTimeout = time.Duration(n) * time.Second
	}
	if n := getenvIntDefault("ASISTAN_HISTORY_LIMIT", 0); n > 0 {
		cfg.HistoryLimit = n
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getenvIntDefault(key string, val int) int {
	v := os.Getenv(key)
	if v == "" {
		return val
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return val
	}
	return n
}
