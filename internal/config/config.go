package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MaxAdminAccounts is the number of ADMIN_n_* triples read from the environment.
const MaxAdminAccounts = 3

type AdminAccount struct {
	Email        string
	Name         string
	PasswordHash string
}

type Settings struct {
	ServerPort int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
	PublicBaseURL  string

	AdminURLSecret string
	AdminAccounts  []AdminAccount
	SessionSecret  string
	SessionTTL     time.Duration
	SecureCookies  bool

	RedisAddr     string
	RedisPassword string
	// SweepSchedule is the asynq cron spec of the catch-up metadata sweep. Empty disables it.
	SweepSchedule string

	ResendAPIKey string
	ContactEmail string
	ContactFrom  string

	InstagramAppID     string
	InstagramAppSecret string
	InstagramPostURLs  []string

	ContentDir     string
	RequestLogging bool
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	for _, key := range []string{
		"SERVER_PORT",
		"MINIO_ENDPOINT",
		"MINIO_ACCESS_KEY",
		"MINIO_SECRET_KEY",
		"MINIO_BUCKET",
		"SESSION_SECRET",
	} {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	accounts, err := loadAdminAccounts()
	if err != nil {
		return nil, err
	}

	viper.SetDefault("SESSION_TTL_HOURS", 8)
	viper.SetDefault("CONTENT_DIR", "content")
	viper.SetDefault("CONTACT_FROM", "Portfolio <onboarding@resend.dev>")
	viper.SetDefault("COOKIE_SECURE", true)
	viper.SetDefault("LOG_REQUESTS", true)
	viper.SetDefault("METADATA_SWEEP_SCHEDULE", "@every 1h")

	return &Settings{
		ServerPort: viper.GetInt("SERVER_PORT"),

		MinioEndpoint:  viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    viper.GetBool("MINIO_USE_SSL"),
		MinioBucket:    viper.GetString("MINIO_BUCKET"),
		PublicBaseURL:  strings.TrimSuffix(viper.GetString("PUBLIC_BASE_URL"), "/"),

		AdminURLSecret: strings.Trim(viper.GetString("ADMIN_URL_SECRET"), "/"),
		AdminAccounts:  accounts,
		SessionSecret:  viper.GetString("SESSION_SECRET"),
		SessionTTL:     time.Duration(viper.GetInt("SESSION_TTL_HOURS")) * time.Hour,
		SecureCookies:  viper.GetBool("COOKIE_SECURE"),

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		SweepSchedule: strings.TrimSpace(viper.GetString("METADATA_SWEEP_SCHEDULE")),

		ResendAPIKey: viper.GetString("RESEND_API_KEY"),
		ContactEmail: viper.GetString("CONTACT_EMAIL"),
		ContactFrom:  viper.GetString("CONTACT_FROM"),

		InstagramAppID:     viper.GetString("INSTAGRAM_APP_ID"),
		InstagramAppSecret: viper.GetString("INSTAGRAM_APP_SECRET"),
		InstagramPostURLs:  splitList(viper.GetString("INSTAGRAM_POST_URLS")),

		ContentDir:     viper.GetString("CONTENT_DIR"),
		RequestLogging: viper.GetBool("LOG_REQUESTS"),
	}, nil
}

// loadAdminAccounts reads ADMIN_1_* .. ADMIN_3_*. A slot is used only when its email is set,
// and then its password hash is mandatory.
func loadAdminAccounts() ([]AdminAccount, error) {
	var accounts []AdminAccount
	for i := 1; i <= MaxAdminAccounts; i++ {
		prefix := fmt.Sprintf("ADMIN_%d_", i)
		email := strings.TrimSpace(viper.GetString(prefix + "EMAIL"))
		if email == "" {
			continue
		}
		hash := viper.GetString(prefix + "PASSWORD_HASH")
		if hash == "" {
			return nil, fmt.Errorf("%sPASSWORD_HASH is required when %sEMAIL is set", prefix, prefix)
		}
		name := viper.GetString(prefix + "NAME")
		if name == "" {
			name = email
		}
		accounts = append(accounts, AdminAccount{
			Email:        strings.ToLower(email),
			Name:         name,
			PasswordHash: hash,
		})
	}
	return accounts, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
