package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Service   ServiceConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Password  PasswordConfig
	Inventory InventoryConfig
	CORS      CORSConfig
	Proxy     ProxyConfig
	Cron      CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Proxy.Networks(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DENIMHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"DENIMHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DENIMHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DENIMHUB_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"DENIMHUB_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"DENIMHUB_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"DENIMHUB_DB_DSN"`
	Driver string `envconfig:"DENIMHUB_DB_DRIVER" default:"mysql"`

	Host     string `envconfig:"DENIMHUB_DB_HOST"`
	Port     int    `envconfig:"DENIMHUB_DB_PORT" default:"3306"`
	User     string `envconfig:"DENIMHUB_DB_USER"`
	Password string `envconfig:"DENIMHUB_DB_PASSWORD"`
	Name     string `envconfig:"DENIMHUB_DB_NAME"`
	SSLMode  string `envconfig:"DENIMHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DENIMHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DENIMHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DENIMHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DENIMHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// NormalizedDriver returns the lower-cased driver name, defaulting to mysql.
func (db DBConfig) NormalizedDriver() string {
	driver := strings.ToLower(strings.TrimSpace(db.Driver))
	if driver == "" {
		return DriverMySQL
	}
	return driver
}

type RedisConfig struct {
	URL          string        `envconfig:"DENIMHUB_REDIS_URL"`
	Address      string        `envconfig:"DENIMHUB_REDIS_ADDR"`
	Password     string        `envconfig:"DENIMHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"DENIMHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DENIMHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DENIMHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DENIMHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DENIMHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DENIMHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"DENIMHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DENIMHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DENIMHUB_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DENIMHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DENIMHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DENIMHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DENIMHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DENIMHUB_ARGON_KEY_LEN" default:"32"`
}

type InventoryConfig struct {
	AllowNegativeStock bool `envconfig:"DENIMHUB_INVENTORY_ALLOW_NEGATIVE_STOCK" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"DENIMHUB_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// ProxyConfig lists the peers allowed to set X-Forwarded-For and X-Real-IP.
// Entries are CIDRs or bare addresses.
type ProxyConfig struct {
	TrustedProxies []string `envconfig:"DENIMHUB_TRUSTED_PROXIES" default:"127.0.0.1/32,::1/128"`
}

func (p ProxyConfig) Networks() ([]*net.IPNet, error) {
	networks := make([]*net.IPNet, 0, len(p.TrustedProxies))
	for _, raw := range p.TrustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid %s entry %q", EnvTrustedProxies, raw)
			}
			bits := 128
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 32
			}
			networks = append(networks, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid %s entry %q: %w", EnvTrustedProxies, raw, err)
		}
		networks = append(networks, network)
	}
	return networks, nil
}

type CronConfig struct {
	Interval time.Duration `envconfig:"DENIMHUB_CRON_INTERVAL" default:"6h"`
	LockTTL  time.Duration `envconfig:"DENIMHUB_CRON_LOCK_TTL" default:"1h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	driver := db.NormalizedDriver()
	if driver == DriverSQLite {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	partValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if partValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	switch driver {
	case DriverMySQL:
		mysqlCfg := mysql.NewConfig()
		mysqlCfg.User = db.User
		mysqlCfg.Passwd = db.Password
		mysqlCfg.Net = "tcp"
		mysqlCfg.Addr = net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
		mysqlCfg.DBName = db.Name
		mysqlCfg.ParseTime = true
		mysqlCfg.Loc = time.UTC
		mysqlCfg.Params = map[string]string{"charset": "utf8mb4"}
		db.DSN = mysqlCfg.FormatDSN()
	case DriverPostgres:
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
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}
	return nil
}
