package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port     string
	LogLevel string

	DBDriver string // postgres | mysql | sqlite
	DBDSN    string

	RedisAddr string // empty => in-process cache, no worker or websocket

	MongoURI string // empty => transcript archive disabled
	MongoDB  string

	LLMProvider    string
	LLMModel       string
	LLMTimeout     time.Duration
	VertexProject  string
	VertexLocation string
	GeminiAPIKey   string
	OpenAIAPIKey   string
	OpenAIBaseURL  string

	GCSBucket string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	ReportWorkers  int
	AllowedOrigins []string
}

// Load reads the process environment. Call godotenv.Load first to pick up a .env file.
func Load() Config {
	return Config{
		Port:     getenv("PORT", "8080"),
		LogLevel: os.Getenv("LOG_LEVEL"),

		DBDriver: strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DBDSN:    firstEnv("DATABASE_DSN", "POSTGRES_URI"),

		RedisAddr: firstEnv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),

		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  getenv("MONGO_DB", "hirescreen"),

		LLMProvider:    strings.ToLower(os.Getenv("LLM_PROVIDER")),
		LLMModel:       os.Getenv("LLM_MODEL"),
		LLMTimeout:     durationEnv("LLM_TIMEOUT", 2*time.Minute),
		VertexProject:  firstEnv("VERTEX_PROJECT", "GOOGLE_CLOUD_PROJECT"),
		VertexLocation: os.Getenv("VERTEX_LOCATION"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),

		GCSBucket: os.Getenv("GCS_BUCKET"),

		JWTSecret:   os.Getenv("SUPABASE_JWT_SECRET"),
		JWTIssuer:   os.Getenv("SUPABASE_JWT_ISSUER"),
		JWTAudience: os.Getenv("SUPABASE_JWT_AUDIENCE"),

		ReportWorkers:  intEnv("REPORT_WORKERS", 2),
		AllowedOrigins: listEnv("WS_ALLOWED_ORIGINS"),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func intEnv(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// durationEnv accepts Go durations ("45s") or a bare number of seconds.
func durationEnv(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func listEnv(key string) []string {
	var out []string
	for _, p := range strings.Split(os.Getenv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
