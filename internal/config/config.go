package config

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Argon2     Argon2Config
	Ledger     LedgerConfig
	Receipts   ReceiptConfig
	Pagination PaginationConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrateOnStart  bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey   string
	ExpiryHours int
}

type Argon2Config struct {
	Time       uint32
	Memory     uint32
	Threads    uint8
	KeyLength  uint32
	SaltLength int
}

// LedgerConfig configures the two balance adjustment endpoints. Deposits and
// withdrawal refunds may point at different gateways and carry their own timeouts.
type LedgerConfig struct {
	DepositURL         string
	DepositTimeout     time.Duration
	RefundURL          string
	RefundTimeout      time.Duration
	SettlementCurrency string
}

type ReceiptConfig struct {
	Dirs []string
}

type PaginationConfig struct {
	PageSize    int
	MaxPageSize int
}

type LogConfig struct {
	Level  string
	Format string
}

var bindings = map[string]string{
	"server.port":                "PORT",
	"server.allowed_origins":     "CORS_ALLOWED_ORIGINS",
	"database.host":              "DATABASE_HOST",
	"database.port":              "DATABASE_PORT",
	"database.user":              "DATABASE_USER",
	"database.password":          "DATABASE_PASSWORD",
	"database.name":              "DATABASE_NAME",
	"database.ssl_mode":          "DATABASE_SSL_MODE",
	"database.max_open_conns":    "DATABASE_MAX_OPEN_CONNS",
	"database.max_idle_conns":    "DATABASE_MAX_IDLE_CONNS",
	"database.conn_max_lifetime": "DATABASE_CONN_MAX_LIFETIME",
	"database.migrate_on_start":  "DATABASE_MIGRATE_ON_START",
	"redis.host":                 "REDIS_HOST",
	"redis.port":                 "REDIS_PORT",
	"redis.password":             "REDIS_PASSWORD",
	"redis.db":                   "REDIS_DB",
	"jwt.secret_key":             "JWT_SECRET_KEY",
	"jwt.expiry_hours":           "JWT_EXPIRY_HOURS",
	"argon2.time":                "ARGON2_TIME",
	"argon2.memory":              "ARGON2_MEMORY",
	"argon2.threads":             "ARGON2_THREADS",
	"argon2.key_length":          "ARGON2_KEY_LENGTH",
	"argon2.salt_length":         "ARGON2_SALT_LENGTH",
	"ledger.deposit_url":         "DEPOSIT_API_URL",
	"ledger.deposit_timeout":     "DEPOSIT_API_TIMEOUT",
	"ledger.refund_url":          "BALANCE_API_URL",
	"ledger.refund_timeout_ms":   "API_TIMEOUT_MS",
	"ledger.settlement_currency": "SETTLEMENT_CURRENCY",
	"receipts.dir":               "DEPOSIT_RECEIPT_DIR",
	"receipts.fallback_dirs":     "RECEIPT_DIRS",
	"pagination.page_size":       "PAGE_SIZE",
	"pagination.max_page_size":   "MAX_PAGE_SIZE",
	"log.level":                  "LOG_LEVEL",
	"log.format":                 "LOG_FORMAT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.allowed_origins", "https://*,http://*")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "mt5_crm")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret_key", "")
	v.SetDefault("jwt.expiry_hours", 12)

	v.SetDefault("argon2.time", 1)
	v.SetDefault("argon2.memory", 64*1024)
	v.SetDefault("argon2.threads", 4)
	v.SetDefault("argon2.key_length", 32)
	v.SetDefault("argon2.salt_length", 16)

	v.SetDefault("ledger.deposit_url", "http://127.0.0.1:3000/api/trade/balance")
	v.SetDefault("ledger.deposit_timeout", "10s")
	v.SetDefault("ledger.refund_url", "http://127.0.0.1:3000/api/trade/balance")
	v.SetDefault("ledger.refund_timeout_ms", 10000)
	v.SetDefault("ledger.settlement_currency", "USD")

	v.SetDefault("receipts.dir", "")
	v.SetDefault("receipts.fallback_dirs", "./deposit_receipt,./public/deposit_receipt,../nextjs-crm-client/deposit_receipt")

	v.SetDefault("pagination.page_size", 6)
	v.SetDefault("pagination.max_page_size", 100)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads .env (when present) and the environment into a Config.
func Load() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	bindEnv(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using environment and defaults: %v", err)
	}

	return FromViper(v)
}

func bindEnv(v *viper.Viper) {
	v.AutomaticEnv()
	for key, env := range bindings {
		v.BindEnv(key, env)
	}
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			AllowedOrigins:  splitList(v.GetString("server.allowed_origins")),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetString("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			SSLMode:         v.GetString("database.ssl_mode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			MigrateOnStart:  v.GetBool("database.migrate_on_start"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey:   v.GetString("jwt.secret_key"),
			ExpiryHours: v.GetInt("jwt.expiry_hours"),
		},
		Argon2: Argon2Config{
			Time:       v.GetUint32("argon2.time"),
			Memory:     v.GetUint32("argon2.memory"),
			Threads:    uint8(v.GetUint("argon2.threads")),
			KeyLength:  v.GetUint32("argon2.key_length"),
			SaltLength: v.GetInt("argon2.salt_length"),
		},
		Ledger: LedgerConfig{
			DepositURL:         v.GetString("ledger.deposit_url"),
			DepositTimeout:     secondsOrDuration(v, "ledger.deposit_timeout"),
			RefundURL:          v.GetString("ledger.refund_url"),
			RefundTimeout:      time.Duration(v.GetInt("ledger.refund_timeout_ms")) * time.Millisecond,
			SettlementCurrency: v.GetString("ledger.settlement_currency"),
		},
		Pagination: PaginationConfig{
			PageSize:    v.GetInt("pagination.page_size"),
			MaxPageSize: v.GetInt("pagination.max_page_size"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	var dirs []string
	if dir := strings.TrimSpace(v.GetString("receipts.dir")); dir != "" {
		dirs = append(dirs, dir)
	}
	cfg.Receipts.Dirs = append(dirs, splitList(v.GetString("receipts.fallback_dirs"))...)

	if cfg.Ledger.DepositTimeout <= 0 {
		cfg.Ledger.DepositTimeout = 10 * time.Second
	}
	if cfg.Ledger.RefundTimeout <= 0 {
		cfg.Ledger.RefundTimeout = 10 * time.Second
	}
	if cfg.Pagination.MaxPageSize <= 0 {
		cfg.Pagination.MaxPageSize = 100
	}
	if cfg.Pagination.PageSize <= 0 || cfg.Pagination.PageSize > cfg.Pagination.MaxPageSize {
		cfg.Pagination.PageSize = 6
	}

	return cfg
}

// secondsOrDuration reads a bare integer as whole seconds and anything else as
// a Go duration string.
func secondsOrDuration(v *viper.Viper, key string) time.Duration {
	if n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key))); err == nil {
		return time.Duration(n) * time.Second
	}
	return v.GetDuration(key)
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
