package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level string
	JSON  bool

	// File enables rotated file output alongside stdout when set.
	File       string
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAgeDays int `mapstructure:"max_age_days"`
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Mail configures the SMTP relay used by the contact dispatcher. An empty
// Host disables sending; contact submissions then fail as unavailable.
type Mail struct {
	Host           string
	Port           int
	Username       string
	Password       string
	From           string
	SendTimeoutSec int
}

// Contact bounds the contact form: accepted submissions per source IP per
// hour, independent of the general API rate limit.
type Contact struct {
	HourlyQuota int
}

// Admin holds the single administrative login for the write surface.
type Admin struct {
	Email        string
	PasswordHash string `mapstructure:"password_hash"`
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Mail    Mail
	Contact Contact
	Admin   Admin
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	if c.Contact.HourlyQuota <= 0 {
		c.Contact.HourlyQuota = 5
	}
	if c.Mail.SendTimeoutSec <= 0 {
		c.Mail.SendTimeoutSec = 10
	}
	return &c
}
