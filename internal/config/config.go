package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // DATABASE_URL（優先）
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト
	PostgresPort     int    // DBポート

	RedisAddr string // 空ならメモリ

	JWTSecret string // JWT署名シークレット

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORS）

	StoreName       string // メッセージの挨拶に使う店名
	WhatsAppNumber  string // 注文の送り先
	MessagingDomain string // wa.me
	PixKey          string // Pix受取キー
	Locale          string // pt-BR

	GeminiAPIKey string
	GeminiModel  string

	ViewExitDelay       time.Duration
	SessionTTL          time.Duration
	CheckoutPaymentStep bool
	ClearCartOnCheckout bool

	AdminEmail    string // seed用
	AdminPassword string // seed用
}

// placeholderのままの設定値
const placeholderPrefix = "your-"

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	exitDelay, err := durationDefault("VIEW_EXIT_DELAY", 300*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	sessionTTL, err := durationDefault("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	paymentStep, err := boolDefault("CHECKOUT_PAYMENT_STEP", true)
	if err != nil {
		return Config{}, err
	}
	clearCart, err := boolDefault("CLEAR_CART_ON_CHECKOUT", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     pgPort,

		RedisAddr: os.Getenv("REDIS_ADDR"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv: getenv("GO_ENV", "dev"),
		FEURL: os.Getenv("FE_URL"),

		StoreName:       getenv("STORE_NAME", "BRANDAO BURGUER"),
		WhatsAppNumber:  os.Getenv("WHATSAPP_NUMBER"),
		MessagingDomain: getenv("MESSAGING_DOMAIN", "wa.me"),
		PixKey:          os.Getenv("PIX_KEY"),
		Locale:          getenv("LOCALE", "pt-BR"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-2.5-flash"),

		ViewExitDelay:       exitDelay,
		SessionTTL:          sessionTTL,
		CheckoutPaymentStep: paymentStep,
		ClearCartOnCheckout: clearCart,

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	//必須チェック
	if cfg.WhatsAppNumber == "" {
		return Config{}, fmt.Errorf("WHATSAPP_NUMBER is required")
	}
	//管理画面はDBがあるときだけ
	if cfg.PersistenceConfigured() && cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required when database is configured")
	}
	if cfg.ViewExitDelay < 0 {
		return Config{}, fmt.Errorf("VIEW_EXIT_DELAY must be >= 0")
	}

	return cfg, nil
}

// PersistenceConfiguredはDB連携を有効にするかどうか。
// 空やplaceholderのままなら同梱カタログで動く。
func (c Config) PersistenceConfigured() bool {
	if c.DatabaseURL != "" {
		return !isPlaceholder(c.DatabaseURL)
	}
	return c.PostgresHost != "" && !isPlaceholder(c.PostgresHost)
}

// RedisConfigured
func (c Config) RedisConfigured() bool {
	return c.RedisAddr != "" && !isPlaceholder(c.RedisAddr)
}

// GeminiConfigured
func (c Config) GeminiConfigured() bool {
	return c.GeminiAPIKey != "" && !isPlaceholder(c.GeminiAPIKey)
}

func (c Config) IsDev() bool {
	return c.GoEnv == "dev"
}

func isPlaceholder(v string) bool {
	return strings.HasPrefix(strings.TrimSpace(v), placeholderPrefix)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func boolDefault(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
