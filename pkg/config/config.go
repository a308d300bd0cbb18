package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	SMTP         SMTPConfig
	Media        MediaConfig
	Shop         ShopConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Shop.parseShipping(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VELOMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"VELOMARKET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VELOMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VELOMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VELOMARKET_DB_DSN"`
	Driver string `envconfig:"VELOMARKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VELOMARKET_DB_HOST"`
	LegacyPort     int    `envconfig:"VELOMARKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VELOMARKET_DB_USER"`
	LegacyPassword string `envconfig:"VELOMARKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"VELOMARKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"VELOMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VELOMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VELOMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VELOMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VELOMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VELOMARKET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VELOMARKET_REDIS_ADDR"`
	Password     string        `envconfig:"VELOMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"VELOMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VELOMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VELOMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VELOMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VELOMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VELOMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VELOMARKET_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VELOMARKET_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VELOMARKET_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"VELOMARKET_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VELOMARKET_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VELOMARKET_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VELOMARKET_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VELOMARKET_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VELOMARKET_ARGON_KEY_LEN" default:"32"`
}

type SMTPConfig struct {
	Host             string `envconfig:"VELOMARKET_SMTP_HOST"`
	Port             string `envconfig:"VELOMARKET_SMTP_PORT" default:"587"`
	Username         string `envconfig:"VELOMARKET_SMTP_USERNAME"`
	Password         string `envconfig:"VELOMARKET_SMTP_PASSWORD"`
	From             string `envconfig:"VELOMARKET_SMTP_FROM"`
	ContactRecipient string `envconfig:"VELOMARKET_CONTACT_RECIPIENT"`
}

type MediaConfig struct {
	Dir             string `envconfig:"VELOMARKET_MEDIA_DIR" default:"media/img"`
	MaxUploadMB     int    `envconfig:"VELOMARKET_MAX_UPLOAD_MB" default:"10"`
	ThumbnailWidth  int    `envconfig:"VELOMARKET_MEDIA_THUMBNAIL_WIDTH" default:"360"`
	ThumbnailHeight int    `envconfig:"VELOMARKET_MEDIA_THUMBNAIL_HEIGHT" default:"480"`
	BigImageWidth   int    `envconfig:"VELOMARKET_MEDIA_BIG_WIDTH" default:"600"`
	BigImageHeight  int    `envconfig:"VELOMARKET_MEDIA_BIG_HEIGHT" default:"800"`
}

type ShopConfig struct {
	ShippingPrice   string        `envconfig:"VELOMARKET_SHOP_SHIPPING_PRICE" default:"0"`
	LatestPerKind   int           `envconfig:"VELOMARKET_SHOP_LATEST_PER_KIND" default:"5"`
	GuestCartTTL    time.Duration `envconfig:"VELOMARKET_SHOP_GUEST_CART_TTL" default:"720h"`
	shippingDecimal decimal.Decimal
}

// Shipping returns the parsed default shipping price applied to new carts.
func (s ShopConfig) Shipping() decimal.Decimal {
	return s.shippingDecimal
}

func (s *ShopConfig) parseShipping() error {
	raw := strings.TrimSpace(s.ShippingPrice)
	if raw == "" {
		raw = "0"
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid shipping price %q: %w", s.ShippingPrice, err)
	}
	if d.IsNegative() {
		return fmt.Errorf("shipping price must not be negative")
	}
	s.shippingDecimal = d
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VELOMARKET_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
