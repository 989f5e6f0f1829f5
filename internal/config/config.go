package config

import "time"

type Config struct {
	// API bind address, e.g., "127.0.0.1:8080" or ":8080" (Docker)
	Addr       string `mapstructure:"addr" envconfig:"API_ADDR"`
	LogDir     string `mapstructure:"log_dir" envconfig:"LOG_DIR"`
	LogLevel   string `mapstructure:"log_level" envconfig:"LOG_LEVEL"`
	LogConsole bool   `mapstructure:"log_console" envconfig:"LOG_CONSOLE"`

	// Probes lists catalog kinds in registry order.
	Probes       []string      `mapstructure:"probes" envconfig:"PROBES"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" envconfig:"PROBE_TIMEOUT"`
	RunOnStart   bool          `mapstructure:"run_on_start" envconfig:"RUN_ON_START"`

	PublicAPIKeys  []string `mapstructure:"public_api_keys" envconfig:"PUBLIC_API_KEYS"`
	AdminAPIKeys   []string `mapstructure:"admin_api_keys" envconfig:"ADMIN_API_KEYS"`
	AllowedOrigins []string `mapstructure:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	AdminRPM       int      `mapstructure:"admin_rpm" envconfig:"ADMIN_RPM"`
	AdminBurst     int      `mapstructure:"admin_burst" envconfig:"ADMIN_BURST"`

	SlackWebhook string `mapstructure:"slack_webhook_url" envconfig:"SLACK_WEBHOOK_URL"`

	Probe ProbeConfig `mapstructure:"probe" ignored:"true"`
}

// ProbeConfig holds the knobs of the individual capability probes.
// An empty DNSHost means the host of NetworkURL; a zero FakeDataSeed means a
// random seed.
type ProbeConfig struct {
	NetworkURL      string        `mapstructure:"network_url" envconfig:"NETWORK_URL"`
	DNSHost         string        `mapstructure:"dns_host" envconfig:"DNS_HOST"`
	DBHost          string        `mapstructure:"db_host" envconfig:"DB_HOST"`
	DBPort          int           `mapstructure:"db_port" envconfig:"DB_PORT"`
	DBName          string        `mapstructure:"db_name" envconfig:"DB_NAME"`
	DBUser          string        `mapstructure:"db_user" envconfig:"DB_USER"`
	DBPassword      string        `mapstructure:"db_password" envconfig:"DB_PASSWORD"`
	SQLiteDSN       string        `mapstructure:"sqlite_dsn" envconfig:"SQLITE_DSN"`
	JWTSecret       string        `mapstructure:"jwt_secret" envconfig:"JWT_SECRET"`
	JWTTTL          time.Duration `mapstructure:"jwt_ttl" envconfig:"JWT_TTL"`
	BcryptCost      int           `mapstructure:"bcrypt_cost" envconfig:"BCRYPT_COST"`
	ImageSize       int           `mapstructure:"image_size" envconfig:"IMAGE_SIZE"`
	SerializeFormat string        `mapstructure:"serialize_format" envconfig:"SERIALIZE_FORMAT"`
	FakeDataSeed    uint64        `mapstructure:"fakedata_seed" envconfig:"FAKEDATA_SEED"`
	JQQuery         string        `mapstructure:"jq_query" envconfig:"JQ_QUERY"`
}

// DefaultProbes is the registry order used when PROBES is not set.
var DefaultProbes = []string{
	"serialize", "fakedata", "image", "database", "sqlite", "validate", "hash",
	"token", "encrypt", "clock", "collections", "jsonquery", "dns", "network",
}

func Default() Config {
	return Config{
		Addr:         "127.0.0.1:8080",
		LogDir:       "logs",
		LogLevel:     "info",
		Probes:       append([]string(nil), DefaultProbes...),
		ProbeTimeout: 5 * time.Second,
		RunOnStart:   true,
		AdminRPM:     30,
		AdminBurst:   5,
		Probe: ProbeConfig{
			NetworkURL:      "https://jsonplaceholder.typicode.com/posts/1",
			DBHost:          "localhost",
			DBPort:          5432,
			DBName:          "testdb",
			DBUser:          "testuser",
			DBPassword:      "testpass",
			SQLiteDSN:       ":memory:",
			JWTSecret:       "secret-key",
			JWTTTL:          time.Hour,
			BcryptCost:      10,
			ImageSize:       100,
			SerializeFormat: "json",
			JQQuery:         ".items | length",
		},
	}
}
