package config

import "time"

type DatabaseConfig struct {
	DSN             string        `yaml:"dsn" env:"DATABASE_DSN"`
	MaxOpenConns    int           `yaml:"max_open_conns" env-default:"20"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env-default:"30m"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type JWTConfig struct {
	SecretKey          string        `yaml:"secret_key" env:"JWT_SECRET"`
	Issuer             string        `yaml:"issuer" env-default:"social-scheduler"`
	AccessTokenTTL     time.Duration `yaml:"access_token_ttl" env-default:"15m"`
	RefreshTokenTTL    time.Duration `yaml:"refresh_token_ttl" env-default:"168h"`
	RotateRefreshToken bool          `yaml:"rotate_refresh_token" env:"JWT_ROTATE_REFRESH"`
}

// CookieConfig : имена и атрибуты auth-кук. Флаг Secure вычисляется из окружения.
type CookieConfig struct {
	AccessName  string `yaml:"access_name" env-default:"token"`
	RefreshName string `yaml:"refresh_name" env-default:"refreshToken"`
	Domain      string `yaml:"domain" env:"COOKIE_DOMAIN"`
	Path        string `yaml:"path" env-default:"/"`
}

type MailConfig struct {
	Provider     string `yaml:"provider" env:"MAIL_PROVIDER" env-default:"log"`
	From         string `yaml:"from" env:"MAIL_FROM"`
	SMTPHost     string `yaml:"smtp_host" env:"MAIL_SMTP_HOST" env-default:"smtp.gmail.com"`
	SMTPPort     string `yaml:"smtp_port" env:"MAIL_SMTP_PORT" env-default:"587"`
	ClientID     string `yaml:"client_id" env:"MAIL_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"MAIL_CLIENT_SECRET"`
	RefreshToken string `yaml:"refresh_token" env:"MAIL_REFRESH_TOKEN"`
	RedirectURL  string `yaml:"redirect_url" env:"MAIL_REDIRECT_URL"`
}

// AdminConfig : учетная запись суперадмина, создаваемая командой migrate
type AdminConfig struct {
	Name     string `yaml:"name" env:"ADMIN_NAME" env-default:"superadmin"`
	Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

type TTL struct {
	UserCache         time.Duration `yaml:"user_cache" env-default:"5m"`
	VerificationToken time.Duration `yaml:"verification_token" env-default:"1h"`
	ResetToken        time.Duration `yaml:"reset_token" env-default:"2m"`
	// VerificationGrace : сколько подтвержденный токен еще принимается повторно. 0 - очищается сразу.
	VerificationGrace time.Duration `yaml:"verification_grace" env:"VERIFICATION_GRACE"`
	ReaperInterval    time.Duration `yaml:"reaper_interval" env-default:"1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ORIGINS" env-separator:","`
}
