package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Parse      ParseConfig
	LLM        LLMConfig
	Classifier ClassifierConfig
	Cache      CacheConfig
	Log        LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr    string
	MetricsAddr string
}

// ParseConfig holds the external text extraction tools
type ParseConfig struct {
	PdfToTextBin   string
	PdfToPpmBin    string
	TesseractBin   string
	TesseractLang  string
	TessdataDir    string
	DPI            int
	MaxPages       int
	MinPDFTextChar int
}

// LLMConfig holds model provider configuration
type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
	MaxTokens   int
	Lenient     bool
}

// ClassifierConfig selects and tunes the document classifier
type ClassifierConfig struct {
	Mode         string
	PrefixChars  int
	KeywordsFile string
}

// CacheConfig holds the optional parse cache
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// Supported providers and classifier modes.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	ClassifierKeyword = "keyword"
	ClassifierModel   = "model"
)

// LoadConfig loads .env files (if present) and then reads configuration from environment variables
func LoadConfig() *Config {
	loadEnvFiles()

	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI))
	return &Config{
		Server: ServerConfig{
			GRPCAddr:    getEnv("GRPC_ADDR", ":8080"),
			MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		},
		Parse: ParseConfig{
			PdfToTextBin:   getEnv("PDFTOTEXT_BIN", "pdftotext"),
			PdfToPpmBin:    getEnv("PDFTOPPM_BIN", "pdftoppm"),
			TesseractBin:   getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang:  getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:    getEnv("TESSDATA_PREFIX", ""),
			DPI:            getEnvAsInt("OCR_DPI", 300),
			MaxPages:       getEnvAsInt("OCR_MAX_PAGES", 10),
			MinPDFTextChar: getEnvAsInt("PDF_MIN_TEXT_CHARS", 50),
		},
		LLM: LLMConfig{
			Provider:    provider,
			Model:       getEnv("LLM_MODEL", defaultModel(provider)),
			APIKey:      apiKey(provider),
			BaseURL:     getEnv("LLM_BASE_URL", ""),
			Temperature: getEnvAsFloat32("LLM_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 4096),
			Lenient:     getEnvAsBool("LLM_LENIENT", true),
		},
		Classifier: ClassifierConfig{
			Mode:         strings.ToLower(getEnv("CLASSIFIER_MODE", ClassifierKeyword)),
			PrefixChars:  getEnvAsInt("CLASSIFIER_PREFIX_CHARS", 3000),
			KeywordsFile: getEnv("CLASSIFIER_KEYWORDS_FILE", ""),
		},
		Cache: CacheConfig{
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			TTL:           getEnvAsDuration("PARSE_CACHE_TTL", 24*time.Hour),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// loadEnvFiles loads ENV_FILE, then .env.local, then .env. Variables already
// set in the environment win, and missing files are ignored.
func loadEnvFiles() {
	files := []string{".env.local", ".env"}
	if explicit := os.Getenv("ENV_FILE"); explicit != "" {
		files = append([]string{explicit}, files...)
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

func defaultModel(provider string) string {
	if provider == ProviderAnthropic {
		return "claude-3-5-haiku-latest"
	}
	return "gpt-4o-mini"
}

func apiKey(provider string) string {
	if v := getEnv("LLM_API_KEY", ""); v != "" {
		return v
	}
	if provider == ProviderAnthropic {
		return getEnv("ANTHROPIC_API_KEY", "")
	}
	return getEnv("OPENAI_API_KEY", "")
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown LLM_PROVIDER %q", c.LLM.Provider), ErrInvalidInput)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "LLM_API_KEY is required", ErrInvalidInput)
	}
	switch c.Classifier.Mode {
	case ClassifierKeyword, ClassifierModel:
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown CLASSIFIER_MODE %q", c.Classifier.Mode), ErrInvalidInput)
	}
	if c.Classifier.PrefixChars <= 0 {
		return NewAppError("CONFIG_ERROR", "CLASSIFIER_PREFIX_CHARS must be positive", ErrInvalidInput)
	}
	return nil
}
