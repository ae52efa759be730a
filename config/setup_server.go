package config

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

const EnvDevelopment = "development"

type AppConfig struct {
	Env            string         `yaml:"env" env:"APP_ENV" env-default:"development"`
	ServerAddr     string         `yaml:"serverAddr" env:"SERVER_ADDR" env-default:":3000"`
	AppURL         string         `yaml:"appURL" env:"APP_URL" env-default:"http://localhost:5173"`
	DatabaseConfig DatabaseConfig `yaml:"databaseConfig"`
	RedisConfig    RedisConfig    `yaml:"redisConfig"`
	JWT            JWTConfig      `yaml:"jwt"`
	Cookie         CookieConfig   `yaml:"cookie"`
	Mail           MailConfig     `yaml:"mail"`
	Admin          AdminConfig    `yaml:"admin"`
	TTL            TTL            `yaml:"TTL"`
	CORS           CORSConfig     `yaml:"cors"`
}

// LoadConfig : читает yaml-файл и накладывает поверх переменные окружения.
// Пустой path означает конфигурацию только из окружения.
func LoadConfig(path string) (*AppConfig, error) {
	var cfg AppConfig

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("[Config] ошибка чтения файла конфигурации: %w", err)
		}

		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("[Config] ошибка разбора yaml: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("[Config] ошибка чтения переменных окружения: %w", err)
	}

	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("[Config] не задан jwt.secret_key (JWT_SECRET)")
	}

	return &cfg, nil
}

func (c *AppConfig) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// SecureCookies : secure-флаг кук включен везде, кроме development
func (c *AppConfig) SecureCookies() bool {
	return !c.IsDevelopment()
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:              serverAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server, router
}

func SetupDatabase(cfg *DatabaseConfig) (*Database, error) {
	return NewDatabaseConnection("postgres", cfg)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
