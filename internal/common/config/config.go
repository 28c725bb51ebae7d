package config

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Fetcher FetcherConfig `mapstructure:"fetcher"`
	Revenue RevenueConfig `mapstructure:"revenue"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	ListenAddress   string `mapstructure:"listen_address"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// RemoteConfig holds settings for the dashboard's remote data store.
// The session token is an opaque credential forwarded unchanged on every
// request; the engine never interprets it.
type RemoteConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	SessionToken string `mapstructure:"session_token"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
}

type CacheConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
	TTL   int         `mapstructure:"ttl"` // milliseconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// FetcherConfig holds the batch/throttle settings for the per-promoter
// stats fetcher.
type FetcherConfig struct {
	BatchSize  int `mapstructure:"batch_size"`
	BatchDelay int `mapstructure:"batch_delay"` // milliseconds
}

// RevenueConfig holds the compensation-formula constants. Defaults
// reproduce the production formula; the date gate is configurable because
// the two historical call sites disagree on it.
type RevenueConfig struct {
	TierDate             string `mapstructure:"tier_date"` // YYYY-MM-DD
	TierThreshold        int    `mapstructure:"tier_threshold"`
	BaseSalaryRate       int    `mapstructure:"base_salary_rate"`
	TierSalaryRate       int    `mapstructure:"tier_salary_rate"`
	TierRequiresDateGate bool   `mapstructure:"tier_requires_date_gate"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
