package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup from the environment (and .env when present).
type Config struct {
	Port           string
	StoreBackend   string // memory | mongo | sqlite | postgres
	MongoURI       string
	MongoDB        string
	SQLitePath     string
	DatabaseURL    string
	RedisURI       string
	JWTSecret      string
	JWTTTL         time.Duration
	AllowedOrigins string
	AppBaseURL     string
	ChromeTimeout  time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
	NotifyTo []string
}

// Load reads .env and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Warning: No .env file found")
	}

	return Config{
		Port:           getEnv("APP_PORT", "8888"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", "mongo")),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDB:        getEnv("MONGO_DB", "inspectrack"),
		SQLitePath:     getEnv("SQLITE_PATH", "inspectrack.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURI:       os.Getenv("REDIS_URI"),
		JWTSecret:      getEnv("JWT_SECRET", "your_secret_key"),
		JWTTTL:         getDuration("JWT_TTL", 12*time.Hour),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		AppBaseURL:     strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
		ChromeTimeout:  getDuration("CHROME_TIMEOUT", 30*time.Second),

		SMTPHost: getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: getInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),
		NotifyTo: splitList(os.Getenv("NOTIFY_TO")),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️ %s=%q is not a duration, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
