package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// External APIs
	KIS   KISConfig
	Naver NaverConfig

	// Holdings ledger
	Holdings HoldingsConfig

	// Scenario/sector overrides
	Plan PlanConfig

	// Trade log (optional, disabled when URL is empty)
	Database DatabaseConfig

	// Report generation
	Report ReportConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// KISConfig holds KIS (한국투자증권) API configuration
type KISConfig struct {
	AppKey    string
	AppSecret string
	AccountNo string // CANO(8) + ACNT_PRDT_CD(2)
	BaseURL   string
	CustType  string // "P" 개인
	IsVirtual bool   // 모의투자 여부
	Mock      bool   // 네트워크 없이 합성 응답 반환
	TokenTTL  string // "short" (24h) or "long" (90d)
}

// NaverConfig holds the Naver Finance fallback quote source configuration
type NaverConfig struct {
	BaseURL string
	Enabled bool
}

// HoldingsConfig holds holdings ledger configuration
type HoldingsConfig struct {
	// File is the JSON ledger path. The parent directory is created on
	// first write.
	File string
}

// PlanConfig holds the optional YAML override for scenario definitions and
// sector mappings
type PlanConfig struct {
	// File is the YAML path. Empty keeps the built-in definitions.
	File string
}

// DatabaseConfig holds the optional PostgreSQL trade log configuration
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// ReportConfig holds report generation configuration
type ReportConfig struct {
	GeminiAPIKey string
	Model        string
}

// SchedulerConfig holds the valuation job configuration
type SchedulerConfig struct {
	Enabled       bool
	ValuationSpec string // cron spec
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		KIS: KISConfig{
			AppKey:    getEnv("KIS_APP_KEY", ""),
			AppSecret: getEnv("KIS_APP_SECRET", ""),
			AccountNo: getEnv("KIS_ACCOUNT_NO", ""),
			BaseURL:   getEnv("KIS_BASE_URL", "https://openapivts.koreainvestment.com:29443"),
			CustType:  getEnv("KIS_CUSTTYPE", "P"),
			IsVirtual: getEnvAsBool("KIS_IS_VIRTUAL", true),
			Mock:      getEnvAsBool("KIS_MOCK", false),
			TokenTTL:  getEnv("KIS_TOKEN_TTL", "short"),
		},

		Naver: NaverConfig{
			BaseURL: getEnv("NAVER_BASE_URL", "https://finance.naver.com"),
			Enabled: getEnvAsBool("NAVER_FALLBACK_ENABLED", true),
		},

		Holdings: HoldingsConfig{
			File: getEnv("HOLDINGS_FILE", "data/holdings.json"),
		},

		Plan: PlanConfig{
			File: getEnv("PLAN_CONFIG", ""),
		},

		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},

		Report: ReportConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("REPORT_MODEL", "gemini-2.0-flash"),
		},

		Scheduler: SchedulerConfig{
			Enabled:       getEnvAsBool("SCHEDULER_ENABLED", false),
			ValuationSpec: getEnv("VALUATION_CRON", "0 10 16 * * MON-FRI"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.KIS.TokenTTL != "short" && c.KIS.TokenTTL != "long" {
		return fmt.Errorf("KIS_TOKEN_TTL must be 'short' or 'long'")
	}

	// Order placement splits the account number into CANO and product code.
	if c.KIS.AccountNo != "" && len(c.KIS.AccountNo) < 10 {
		return fmt.Errorf("KIS_ACCOUNT_NO must be CANO(8)+ACNT_PRDT_CD(2)")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
