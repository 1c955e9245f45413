package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

const (
	DefaultBackendURL     = "http://localhost:3000"
	DefaultListenAddr     = "localhost:8080"
	DefaultAuthorityAddr  = "localhost:3000"
	DefaultSessionCookie  = "token"
	DefaultRequestTimeout = 10
	DefaultQRMode         = QRModeRemote
	DefaultTrustedSubnet  = "127.0.0.0/8"
	DefaultLogLevel       = "info"
)

// Режимы получения QR-кода
const (
	QRModeRemote = "remote"
	QRModeLocal  = "local"
)

// Config содержит конфигурацию клиента
type Config struct {
	BackendURL     string `json:"backend_url" env:"BACKEND_URL"`
	ListenAddr     string `json:"listen_address" env:"DASHBOARD_ADDRESS"`
	AuthorityAddr  string `json:"authority_address" env:"AUTHORITY_ADDRESS"`
	SessionToken   string `json:"session_token" env:"SESSION_TOKEN"`
	SessionCookie  string `json:"session_cookie" env:"SESSION_COOKIE"`
	RequestTimeout int    `json:"request_timeout" env:"REQUEST_TIMEOUT"`
	QRMode         string `json:"qr_mode" env:"QR_MODE"`
	RedisAddr      string `json:"redis_address" env:"REDIS_ADDR"`
	AuditFile      string `json:"audit_file" env:"AUDIT_FILE"`
	AuditURL       string `json:"audit_url" env:"AUDIT_URL"`
	AuditDSN       string `json:"audit_dsn" env:"AUDIT_DSN"`
	TrustedSubnet  string `json:"trusted_subnet" env:"TRUSTED_SUBNET"`
	LogLevel       string `json:"log_level" env:"LOG_LEVEL"`
}

// NewConfig собирает конфигурацию из os.Args и завершает процесс при ошибке
func NewConfig() (*Config, []string) {
	c, rest, err := Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return c, rest
}

// Load собирает конфигурацию: файл -> .env -> переменные окружения -> флаги.
// Возвращает аргументы, оставшиеся после флагов (подкоманда и её параметры).
func Load(args []string) (*Config, []string, error) {
	c := &Config{
		BackendURL:     DefaultBackendURL,
		ListenAddr:     DefaultListenAddr,
		AuthorityAddr:  DefaultAuthorityAddr,
		SessionCookie:  DefaultSessionCookie,
		RequestTimeout: DefaultRequestTimeout,
		QRMode:         DefaultQRMode,
		TrustedSubnet:  DefaultTrustedSubnet,
		LogLevel:       DefaultLogLevel,
	}

	if err := c.loadFromFile(getConfigPath(args)); err != nil {
		return nil, nil, err
	}

	// .env не обязателен
	_ = godotenv.Load()

	if err := env.Parse(c); err != nil {
		return nil, nil, fmt.Errorf("ошибка чтения окружения: %w", err)
	}

	rest, err := c.getArgsFromCli(args)
	if err != nil {
		return nil, nil, err
	}

	if err := c.validate(); err != nil {
		return nil, nil, err
	}

	return c, rest, nil
}

func getConfigPath(args []string) string {
	for i, arg := range args {
		if (arg == "-c" || arg == "-config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("CONFIG")
}

func (c *Config) loadFromFile(filename string) error {
	if filename == "" {
		return nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("ошибка разбора файла конфигурации: %w", err)
	}
	return nil
}

func (c *Config) getArgsFromCli(args []string) ([]string, error) {
	fs := flag.NewFlagSet("linkdash", flag.ContinueOnError)
	fs.StringVar(&c.BackendURL, "b", c.BackendURL, "base url of the shortener backend")
	fs.StringVar(&c.ListenAddr, "a", c.ListenAddr, "dashboard listen address")
	fs.StringVar(&c.AuthorityAddr, "authority-addr", c.AuthorityAddr, "fake authority listen address")
	fs.StringVar(&c.SessionToken, "t", c.SessionToken, "session token")
	fs.StringVar(&c.SessionCookie, "cookie", c.SessionCookie, "session cookie name")
	fs.IntVar(&c.RequestTimeout, "timeout", c.RequestTimeout, "request timeout, seconds")
	fs.StringVar(&c.QRMode, "qr", c.QRMode, "qr code source: remote or local")
	fs.StringVar(&c.RedisAddr, "redis", c.RedisAddr, "redis address for the qr cache")
	fs.StringVar(&c.AuditFile, "audit-file", c.AuditFile, "audit file path")
	fs.StringVar(&c.AuditURL, "audit-url", c.AuditURL, "audit server URL")
	fs.StringVar(&c.AuditDSN, "audit-dsn", c.AuditDSN, "audit database DSN")
	fs.StringVar(&c.TrustedSubnet, "subnet", c.TrustedSubnet, "trusted subnet for the dashboard")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	fs.String("c", "", "config file path")
	fs.String("config", "", "config file path")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

func (c *Config) validate() error {
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")
	if c.BackendURL == "" {
		return errors.New("не задан адрес сервиса (BACKEND_URL)")
	}
	if c.QRMode != QRModeRemote && c.QRMode != QRModeLocal {
		return fmt.Errorf("неизвестный режим QR: %q", c.QRMode)
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	return nil
}

// Timeout таймаут одного запроса к сервису
func (c Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func (c Config) GetBackendURL() string {
	return c.BackendURL
}

func (c Config) GetListenAddr() string {
	return c.ListenAddr
}
