package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Content store backends
const (
	StoreFirebase = "firebase"
	StoreRedis    = "redis"
	StoreFile     = "file"
)

// Remote submission backends
const (
	SubmissionRTDB      = "rtdb"
	SubmissionFirestore = "firestore"
	SubmissionNone      = "none"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// ✅ Admin login
	AdminEmail        string
	AdminPasswordHash string
	JWTAccessSecret   string
	JWTAccessTTLHours int

	// ✅ Redis Config
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ✅ Kafka Config
	KafkaBrokers         []string
	KafkaSubmissionTopic string
	KafkaConsumerGroup   string

	// ✅ SMTP Config
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	// ✅ Firebase Config
	FirebaseCredentialsPath string
	FirebaseProjectID       string
	FirebaseDatabaseURL     string

	// ✅ Content pipeline
	ContentStore        string
	ContentDir          string
	ContentPollSeconds  int
	FetchTimeoutSeconds int
	SubmissionBackend   string
	SiteTimezone        string
	PageTemplate        string

	CORSOrigins []string
	// Proxies whose X-Forwarded-For is believed. Empty trusts none.
	TrustedProxies []string
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTAccessSecret:   os.Getenv("JWT_ACCESS_SECRET"),
		JWTAccessTTLHours: getEnvInt("JWT_ACCESS_TTL_HOURS", 12),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers:         splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaSubmissionTopic: getEnv("KAFKA_SUBMISSION_TOPIC", "greenroots.submissions"),
		KafkaConsumerGroup:   getEnv("KAFKA_CONSUMER_GROUP", "greenroots-notifications"),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  getEnv("SMTP_FROM_NAME", "GreenRoots"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),

		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./serviceAccountKey.json"),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		FirebaseDatabaseURL:     os.Getenv("FIREBASE_DATABASE_URL"),

		ContentStore:        strings.ToLower(getEnv("CONTENT_STORE", StoreRedis)),
		ContentDir:          getEnv("CONTENT_DIR", "./data"),
		ContentPollSeconds:  getEnvInt("CONTENT_POLL_SECONDS", 5),
		FetchTimeoutSeconds: getEnvInt("CONTENT_FETCH_TIMEOUT_SECONDS", 10),
		SubmissionBackend:   strings.ToLower(getEnv("SUBMISSION_BACKEND", SubmissionRTDB)),
		SiteTimezone:        os.Getenv("SITE_TIMEZONE"),
		PageTemplate:        os.Getenv("PAGE_TEMPLATE"),

		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:4173")),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
	}
}

// SMTPConfigured reports whether outgoing mail can be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort != "" && c.SMTPFromEmail != ""
}

// DatabaseConfigured reports whether the audit database is set up.
func (c *Config) DatabaseConfigured() bool {
	return c.DBHost != "" && c.DBName != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
