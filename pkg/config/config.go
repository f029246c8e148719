package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	FeatureFlags FeatureFlagsConfig
	Catalog      CatalogConfig
	Reconcile    ReconcileConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FOODORDER_APP_ENV" required:"true"`
	Port         string `envconfig:"FOODORDER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FOODORDER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOODORDER_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"FOODORDER_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FOODORDER_DB_DSN"`
	Driver string `envconfig:"FOODORDER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FOODORDER_DB_HOST"`
	LegacyPort     int    `envconfig:"FOODORDER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FOODORDER_DB_USER"`
	LegacyPassword string `envconfig:"FOODORDER_DB_PASSWORD"`
	LegacyName     string `envconfig:"FOODORDER_DB_NAME"`
	LegacySSLMode  string `envconfig:"FOODORDER_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"FOODORDER_SQLITE_PATH" default:"data/foodorder.db"`

	MaxOpenConns    int           `envconfig:"FOODORDER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOODORDER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOODORDER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODORDER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FOODORDER_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FOODORDER_AUTO_MIGRATE" default:"false"`
	SeedOnBoot  bool `envconfig:"FOODORDER_SEED_PROGRAMS" default:"true"`
}

type CatalogConfig struct {
	SearchLimit   int `envconfig:"FOODORDER_CATALOG_SEARCH_LIMIT" default:"50"`
	FrequentLimit int `envconfig:"FOODORDER_CATALOG_FREQUENT_LIMIT" default:"20"`
}

type ReconcileConfig struct {
	// PriceToleranceCents bounds |extended - qty*unit| before a line is flagged.
	PriceToleranceCents int `envconfig:"FOODORDER_RECONCILE_TOLERANCE_CENTS" default:"1"`
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
