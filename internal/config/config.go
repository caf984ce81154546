package config

import (
	"time"

	pkgconfig "github.com/Skotchmaster/storefront/pkg/config"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"storefront"`
	ServerPort  int    `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"pgx"`
	DatabaseURL string `env:"DATABASE_URL"`

	JWTAccessSecret  string        `env:"JWT_SECRET"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	SessionBackend string        `env:"SESSION_BACKEND" envDefault:"db"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"336h"`
	RedisAddr      string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	CheckoutLockTimeout time.Duration `env:"CHECKOUT_LOCK_TIMEOUT" envDefault:"5s"`

	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"false"`
	CSRFEnabled  bool   `env:"CSRF_ENABLED" envDefault:"true"`
	MediaRoot    string `env:"MEDIA_ROOT" envDefault:"./media"`
}

func Load() (Config, error) {
	return pkgconfig.Load[Config]()
}

func (c Config) MustValidate() {
	pkgconfig.MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	pkgconfig.MustNonEmpty(c.JWTAccessSecret, "JWT_SECRET")
	pkgconfig.MustNonEmpty(c.JWTRefreshSecret, "JWT_REFRESH_SECRET")
}
