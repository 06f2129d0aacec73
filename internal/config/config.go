package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type FilesConfig struct {
	RootDir  string `yaml:"root_dir"`
	FontPath string `yaml:"font_path"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Enabled  bool   `yaml:"enabled"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Auth struct {
		AccessSecret  string `yaml:"access_secret"`
		RefreshSecret string `yaml:"refresh_secret"`
		Issuer        string `yaml:"issuer"`
		Audience      string `yaml:"audience"`
	} `yaml:"auth"`
	Recovery struct {
		// Восстановление доступно только для этих почтовых доменов.
		AllowedDomains []string `yaml:"allowed_domains"`
	} `yaml:"recovery"`
	Logging struct {
		Level       string `yaml:"level"`
		Environment string `yaml:"environment"`
	} `yaml:"logging"`
	Files    FilesConfig    `yaml:"files"`
	Telegram TelegramConfig `yaml:"telegram"`
}

func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open " + path + ": " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse " + path + ": " + err.Error())
	}

	// Секреты из окружения имеют приоритет над файлом.
	overrideFromEnv(&cfg.Database.DSN, "DATABASE_URL")
	overrideFromEnv(&cfg.Auth.AccessSecret, "JWT_ACCESS_SECRET")
	overrideFromEnv(&cfg.Auth.RefreshSecret, "JWT_REFRESH_SECRET")
	overrideFromEnv(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	overrideFromEnv(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")

	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "vetclinic"
	}
	if cfg.Auth.Audience == "" {
		cfg.Auth.Audience = "vetclinic-api"
	}
	if len(cfg.Recovery.AllowedDomains) == 0 {
		cfg.Recovery.AllowedDomains = []string{"gmail.com", "hotmail.com", "outlook.com", "yahoo.com"}
	}
	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	return &cfg
}

func overrideFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
