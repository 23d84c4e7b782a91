package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App   AppConfig
	Ai    AIConfig
	Cache CacheConfig
}

type AppConfig struct {
	Port               string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	SnapshotPath       string
	ImagesDir          string
	ModeEventsTopic    string
}

type AIConfig struct {
	Provider      string // "openai" or "ollama"
	Model         string
	APIKey        string
	BaseURL       string // OpenAI-compatible chat completions endpoint
	OllamaBaseURL string
	RealtimeURL   string // wss endpoint of the realtime voice model
	RealtimeModel string
	RealtimeVoice string
}

type CacheConfig struct {
	ResponseTTLSeconds int
	ResponseCapacity   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			SnapshotPath:       getEnv("MODE_SNAPSHOT_PATH", "data/generated_modes.json"),
			ImagesDir:          getEnv("IMAGES_DIR", "./images"),
			ModeEventsTopic:    getEnv("MODE_EVENTS_TOPIC_NAME", "MODE_SWITCHED"),
		},
		Ai: AIConfig{
			Provider:      getEnv("LLM_PROVIDER", "openai"),
			Model:         getEnv("LLM_MODEL", "gpt-5-mini"),
			APIKey:        getEnv("LLM_API_KEY", ""),
			BaseURL:       getEnv("LLM_BASE_URL", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			RealtimeURL:   getEnv("REALTIME_URL", "wss://api.openai.com/v1/realtime"),
			RealtimeModel: getEnv("REALTIME_MODEL", "gpt-realtime"),
			RealtimeVoice: getEnv("REALTIME_VOICE", "verse"),
		},
		Cache: CacheConfig{
			ResponseTTLSeconds: getEnvAsInt("RESPONSE_CACHE_TTL_SECONDS", 300),
			ResponseCapacity:   getEnvAsInt("RESPONSE_CACHE_CAPACITY", 50),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
