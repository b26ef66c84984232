package config

const EnvPrefix = "DEMOLUX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

const (
	CartStorageMemory   = "memory"
	CartStorageRedis    = "redis"
	CartStorageDatabase = "database"
)

const (
	EnvAppEnv          = "DEMOLUX_APP_ENV"
	EnvPort            = "DEMOLUX_APP_PORT"
	EnvCSAPIKey        = "DEMOLUX_CONTENTSTACK_API_KEY"
	EnvCSDeliveryToken = "DEMOLUX_CONTENTSTACK_DELIVERY_TOKEN"
	EnvCSRegion        = "DEMOLUX_CONTENTSTACK_REGION"
	EnvRedisURL        = "DEMOLUX_REDIS_URL"
	EnvCartStorage     = "DEMOLUX_CART_STORAGE"
	EnvDBDSN           = "DEMOLUX_DB_DSN"
	EnvDBDriver        = "DEMOLUX_DB_DRIVER"
	EnvDBHost          = "DEMOLUX_DB_HOST"
	EnvDBUser          = "DEMOLUX_DB_USER"
	EnvDBName          = "DEMOLUX_DB_NAME"
	EnvStaticVariants  = "DEMOLUX_PERSONALIZE_STATIC_VARIANTS"
	EnvPersonalizeOn   = "DEMOLUX_PERSONALIZE_ENABLED"
	EnvTrustedProxies  = "DEMOLUX_TRUSTED_PROXIES"
)
