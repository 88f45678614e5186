package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 이미지 생성 프로바이더
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config 구조체 - 모든 환경변수를 담음
type Config struct {
	// Server
	Port                 string
	RequestTimeout       time.Duration
	RateLimitPerMinute   int
	RateLimitBurst       int
	TrustProxyHeaders    bool
	DownloadAllowedHosts []string

	// Provider
	ImageProvider string

	// OpenAI
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIVisionModel string
	OpenAIImageModel  string
	ImageSize         string
	ImageQuality      string
	ImageStyle        string

	// Gemini / Vertex AI
	GeminiAPIKey      string
	GeminiVisionModel string
	GeminiImageModel  string
	VertexAIProject   string
	VertexAILocation  string

	// Redis
	RedisHost                string
	RedisPort                string
	RedisUsername            string
	RedisPassword            string
	RedisUseTLS              bool
	MaxGenerationsPerSession int
	RecentStylesLimit        int
	SessionTTL               time.Duration

	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string
	GenerationsTable      string
	StickerArchiveEnabled bool
}

// LoadConfig - 환경변수 로드
func LoadConfig() (*Config, error) {
	// .env 파일 로드 (있으면)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	cfg := &Config{
		// Server
		Port:                 getEnv("PORT", "8080"),
		RequestTimeout:       time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
		RateLimitPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 20),
		RateLimitBurst:       getEnvInt("RATE_LIMIT_BURST", 5),
		TrustProxyHeaders:    getEnvBool("TRUST_PROXY_HEADERS", false),
		DownloadAllowedHosts: splitList(getEnv("DOWNLOAD_ALLOWED_HOSTS", "")),

		ImageProvider: strings.ToLower(getEnv("IMAGE_PROVIDER", ProviderOpenAI)),

		// OpenAI
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		OpenAIVisionModel: getEnv("OPENAI_VISION_MODEL", "gpt-4o"),
		OpenAIImageModel:  getEnv("OPENAI_IMAGE_MODEL", "dall-e-3"),
		ImageSize:         getEnv("IMAGE_SIZE", "1024x1024"),
		ImageQuality:      getEnv("IMAGE_QUALITY", "standard"),
		ImageStyle:        getEnv("IMAGE_STYLE", "vivid"),

		// Gemini / Vertex AI
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiVisionModel: getEnv("GEMINI_VISION_MODEL", "gemini-2.5-flash"),
		GeminiImageModel:  getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		VertexAIProject:   getEnv("VERTEXAI_PROJECT", ""),
		VertexAILocation:  getEnv("VERTEXAI_LOCATION", "us-central1"),

		// Redis (REDIS_HOST 비어있으면 세션 기능 비활성화)
		RedisHost:                getEnv("REDIS_HOST", ""),
		RedisPort:                getEnv("REDIS_PORT", "6379"),
		RedisUsername:            getEnv("REDIS_USERNAME", ""),
		RedisPassword:            getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:              getEnvBool("REDIS_USE_TLS", true),
		MaxGenerationsPerSession: getEnvInt("MAX_GENERATIONS_PER_SESSION", 0),
		RecentStylesLimit:        getEnvInt("RECENT_STYLES_LIMIT", 6),
		SessionTTL:               time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,

		// Supabase
		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "stickers"),
		GenerationsTable:      getEnv("SUPABASE_GENERATIONS_TABLE", "sticker_generations"),
		StickerArchiveEnabled: getEnvBool("STICKER_ARCHIVE_ENABLED", false),
	}

	// 필수 환경변수 검증
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Provider: %s", cfg.ImageProvider)
	if cfg.RedisEnabled() {
		log.Printf("   Redis: %s (TLS: %v)", cfg.GetRedisAddr(), cfg.RedisUseTLS)
	} else {
		log.Printf("   Redis: disabled")
	}
	if cfg.SupabaseEnabled() {
		log.Printf("   Supabase: %s", cfg.SupabaseURL)
	}

	return cfg, nil
}

// validate - 필수 환경변수 검증 (선택된 프로바이더의 자격증명)
func (c *Config) validate() error {
	switch c.ImageProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" && c.VertexAIProject == "" {
			return fmt.Errorf("GEMINI_API_KEY or VERTEXAI_PROJECT is required")
		}
	default:
		return fmt.Errorf("unsupported IMAGE_PROVIDER: %q", c.ImageProvider)
	}
	if c.StickerArchiveEnabled && !c.SupabaseEnabled() {
		return fmt.Errorf("STICKER_ARCHIVE_ENABLED requires SUPABASE_URL and SUPABASE_SERVICE_KEY")
	}
	return nil
}

// RedisEnabled - Redis 설정 여부
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// SupabaseEnabled - Supabase 설정 여부
func (c *Config) SupabaseEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

// GetRedisAddr - Redis 연결 문자열 생성
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// getEnv - 환경변수 가져오기 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("⚠️  Invalid integer for %s: %q, using default %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(strings.ToLower(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}
