package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Contentstack ContentstackConfig
	Cache        CacheConfig
	Redis        RedisConfig
	DB           DBConfig
	Cart         CartConfig
	Personalize  PersonalizeConfig
	PubSub       PubSubConfig
	Jobs         JobsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.Cart.StorageDriver); err != nil {
		return nil, err
	}
	if _, err := cfg.App.TrustedProxyPrefixes(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DEMOLUX_APP_ENV" required:"true"`
	Port         string `envconfig:"DEMOLUX_APP_PORT" default:"3000"`
	BaseURL      string `envconfig:"DEMOLUX_APP_BASE_URL" default:"http://localhost:3000"`
	SiteName     string `envconfig:"DEMOLUX_APP_SITE_NAME" default:"Demolux"`
	LogLevel     string `envconfig:"DEMOLUX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DEMOLUX_LOG_WARN_STACK" default:"false"`

	// TrustedProxies lists the CIDRs (or single addresses) of reverse proxies
	// allowed to set X-Forwarded-For.
	TrustedProxies []string `envconfig:"DEMOLUX_TRUSTED_PROXIES"`
}

// TrustedProxyPrefixes parses TrustedProxies. Bare addresses become single-host prefixes.
func (a AppConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(a.TrustedProxies))
	for _, raw := range a.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			prefix, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid cidr %q: %w", EnvTrustedProxies, raw, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid address %q: %w", EnvTrustedProxies, raw, err)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return prefixes, nil
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// ContentstackConfig points the delivery client at a stack. An empty APIKey switches the
// storefront to the embedded demo content.
type ContentstackConfig struct {
	APIKey        string        `envconfig:"DEMOLUX_CONTENTSTACK_API_KEY"`
	DeliveryToken string        `envconfig:"DEMOLUX_CONTENTSTACK_DELIVERY_TOKEN"`
	Environment   string        `envconfig:"DEMOLUX_CONTENTSTACK_ENVIRONMENT" default:"production"`
	Region        string        `envconfig:"DEMOLUX_CONTENTSTACK_REGION" default:"us"`
	BaseURL       string        `envconfig:"DEMOLUX_CONTENTSTACK_BASE_URL"`
	Branch        string        `envconfig:"DEMOLUX_CONTENTSTACK_BRANCH"`
	Locale        string        `envconfig:"DEMOLUX_CONTENTSTACK_LOCALE" default:"en-us"`
	Timeout       time.Duration `envconfig:"DEMOLUX_CONTENTSTACK_TIMEOUT" default:"10s"`
}

// Configured reports whether delivery credentials are present.
func (c ContentstackConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.DeliveryToken) != ""
}

type CacheConfig struct {
	Driver     string        `envconfig:"DEMOLUX_CACHE_DRIVER" default:"memory"`
	EntryTTL   time.Duration `envconfig:"DEMOLUX_CACHE_ENTRY_TTL" default:"60s"`
	MaxEntries int           `envconfig:"DEMOLUX_CACHE_MAX_ENTRIES" default:"4096"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DEMOLUX_REDIS_URL"`
	Address      string        `envconfig:"DEMOLUX_REDIS_ADDR"`
	Password     string        `envconfig:"DEMOLUX_REDIS_PASSWORD"`
	DB           int           `envconfig:"DEMOLUX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DEMOLUX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DEMOLUX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DEMOLUX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DEMOLUX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DEMOLUX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type DBConfig struct {
	DSN    string `envconfig:"DEMOLUX_DB_DSN"`
	Driver string `envconfig:"DEMOLUX_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"DEMOLUX_DB_HOST"`
	Port     int    `envconfig:"DEMOLUX_DB_PORT" default:"5432"`
	User     string `envconfig:"DEMOLUX_DB_USER"`
	Password string `envconfig:"DEMOLUX_DB_PASSWORD"`
	Name     string `envconfig:"DEMOLUX_DB_NAME"`
	SSLMode  string `envconfig:"DEMOLUX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DEMOLUX_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DEMOLUX_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DEMOLUX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DEMOLUX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type CartConfig struct {
	StorageDriver string        `envconfig:"DEMOLUX_CART_STORAGE" default:"memory"`
	TTL           time.Duration `envconfig:"DEMOLUX_CART_TTL" default:"720h"`
	CookieSecure  bool          `envconfig:"DEMOLUX_CART_COOKIE_SECURE" default:"false"`
}

type PersonalizeConfig struct {
	Enabled        bool          `envconfig:"DEMOLUX_PERSONALIZE_ENABLED" default:"false"`
	ProjectUID     string        `envconfig:"DEMOLUX_PERSONALIZE_PROJECT_UID"`
	EdgeURL        string        `envconfig:"DEMOLUX_PERSONALIZE_EDGE_URL" default:"https://personalize-edge.contentstack.com"`
	StaticVariants []string      `envconfig:"DEMOLUX_PERSONALIZE_STATIC_VARIANTS"`
	SegmentTTL     time.Duration `envconfig:"DEMOLUX_PERSONALIZE_SEGMENT_TTL" default:"30m"`
	Timeout        time.Duration `envconfig:"DEMOLUX_PERSONALIZE_TIMEOUT" default:"3s"`
}

// Configured mirrors the SDK gate: calls are only made for an enabled project.
func (p PersonalizeConfig) Configured() bool {
	return p.Enabled && (strings.TrimSpace(p.ProjectUID) != "" || len(p.StaticVariants) > 0)
}

type PubSubConfig struct {
	ProjectID   string `envconfig:"DEMOLUX_GCP_PROJECT_ID"`
	EventsTopic string `envconfig:"DEMOLUX_PUBSUB_PERSONALIZE_EVENTS_TOPIC" default:"demolux-personalize-events"`
}

// Enabled reports whether a GCP project is configured for publishing.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.ProjectID) != ""
}

type JobsConfig struct {
	Enabled  bool          `envconfig:"DEMOLUX_JOBS_ENABLED" default:"true"`
	Interval time.Duration `envconfig:"DEMOLUX_JOBS_INTERVAL" default:"15m"`
	LockTTL  time.Duration `envconfig:"DEMOLUX_JOBS_LOCK_TTL" default:"10m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate     bool `envconfig:"DEMOLUX_AUTO_MIGRATE" default:"false"`
	CommentUnknown  bool `envconfig:"DEMOLUX_COMMENT_UNKNOWN_BLOCKS" default:"false"`
	RateLimitPerMin int  `envconfig:"DEMOLUX_API_RATE_LIMIT_PER_MIN" default:"120"`
}

func (db *DBConfig) ensureDSN(cartDriver string) error {
	if db.DSN != "" {
		return nil
	}
	if !strings.EqualFold(cartDriver, CartStorageDatabase) {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:demolux.db?cache=shared"
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range []string{EnvDBHost, EnvDBUser, EnvDBName} {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required for database cart storage", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
