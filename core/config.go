package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Database engines
const (
	EngineInMemory = "inmem"
	EnginePostgres = "postgres"
)

type (
	Config struct {
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		AppName          string
		SecretKey        string
		DefaultFromEmail string
		FrontendBaseURL  string
		SendgridApiKey   string
		RollbarToken     string
		Server           ServerConfig
		Database         DatabaseConfig
		Redis            RedisConfig
		Mock             MockConfig
		Matching         MatchingConfig
		Portal           PortalConfig
	}

	ServerConfig struct {
		Host                      string
		Address                   string
		DebugHost                 string
		DisableReqLogs            bool
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		ShutdownTimeout           time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Seed          bool
	}

	RedisConfig struct {
		URL string
	}

	// MockConfig tunes the simulated remote service layer.
	MockConfig struct {
		Latency         time.Duration
		MatchLatency    time.Duration
		BotReplyDelay   time.Duration
		VerifyPasswords bool
	}

	MatchingConfig struct {
		Scorer string // random | similarity
	}

	PortalConfig struct {
		APIBaseURL string
		TokenFile  string
	}
)

func (dbc DatabaseConfig) Address() string {
	return dbc.Host + ":" + dbc.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "EduMatch")
	v.SetDefault("secretKey", "g7s$+1x!p0@q8zb&m2(w5y)ncl#e4^r9hk3=vt6ju*fa_do")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", EngineInMemory)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "edumatch")
	v.SetDefault("database.user", "edumatch")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.seed", true)

	v.SetDefault("redis.url", "")

	v.SetDefault("mock.latency", 600*time.Millisecond)
	v.SetDefault("mock.matchLatency", 1500*time.Millisecond)
	v.SetDefault("mock.botReplyDelay", time.Second)
	v.SetDefault("mock.verifyPasswords", false)

	v.SetDefault("matching.scorer", "random")

	v.SetDefault("portal.apiBaseURL", "http://localhost:8000")
	v.SetDefault("portal.tokenFile", "")
}

// NewConfig loads the app configuration from defaults, `config/.env.<env>` (if it exists) and the environment.
// Environment variables are prefixed with the env name, e.g. `PROD_DATABASE_ENGINE=postgres`.
func NewConfig() *Config {
	conf, err := LoadConfig(os.Getenv("ENV"), "config")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return conf
}

// LoadConfig loads the configuration of the given env (DEV when empty) using dotEnvDir for .env files.
func LoadConfig(env, dotEnvDir string) (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)

	env = strings.ToUpper(env) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("mock.latency", time.Duration(0))
		v.SetDefault("mock.matchLatency", time.Duration(0))
		v.SetDefault("mock.botReplyDelay", time.Duration(0))
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	if dotEnvDir != "" {
		dotEnvPath := filepath.Join(dotEnvDir, ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
		}
	}
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "unmarshalling config")
	}
	conf.Env = env
	return conf, nil
}
