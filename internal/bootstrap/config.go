package bootstrap

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort      string        `mapstructure:"SERVER_PORT"`
	RedisUrl        string        `mapstructure:"REDIS_URL"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	MongoUri        string        `mapstructure:"MONGO_URI"`
	MongoDatabase   string        `mapstructure:"MONGO_DATABASE"`
	IsLocalCors     bool          `mapstructure:"LOCAL_CORS"`
	MaxCompileDepth int           `mapstructure:"MAX_COMPILE_DEPTH"`
	TreeCacheSize   int           `mapstructure:"TREE_CACHE_SIZE"`
	ExportCacheTTL  time.Duration `mapstructure:"EXPORT_CACHE_TTL"`
	OpeningsFile    string        `mapstructure:"OPENINGS_FILE"`
	PageLimitLines  int           `mapstructure:"PAGE_LIMIT_LINES"`
}

var defaults = map[string]any{
	"SERVER_PORT":       ":8080",
	"REDIS_URL":         "localhost:6379",
	"REDIS_PASSWORD":    "",
	"MONGO_URI":         "mongodb://localhost:27017",
	"MONGO_DATABASE":    "repertoire",
	"LOCAL_CORS":        false,
	"MAX_COMPILE_DEPTH": 50,
	"TREE_CACHE_SIZE":   256,
	"EXPORT_CACHE_TTL":  "1h",
	"OPENINGS_FILE":     "",
	"PAGE_LIMIT_LINES":  20,
}

// Setup reads the env-style file at cfgPath. Process environment variables
// win over the file, missing keys fall back to defaults.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
