package config

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/quangdm/votebook-dev/pkg/events"
	"github.com/quangdm/votebook-dev/pkg/exec"
	fixgateway "github.com/quangdm/votebook-dev/pkg/exec/fix"
	postgres_wrapper "github.com/quangdm/votebook-dev/pkg/infra/postgres"
	redis_wrapper "github.com/quangdm/votebook-dev/pkg/infra/redis"
	"github.com/quangdm/votebook-dev/pkg/ingest"
)

type AppConfig struct {
	ServiceName string `yaml:"service_name"`
	LogLevel    string `yaml:"log_level"`

	MeanRevWindow int `yaml:"mean_rev_window"`

	Feed *ingest.FeedConfig `yaml:"feed"`
	Exec *ExecConfig        `yaml:"exec"`

	Redis   *redis_wrapper.RedisConfig       `yaml:"redis"`
	Nats    *events.NatsConfig               `yaml:"nats"`
	TradeDB *postgres_wrapper.PostgresConfig `yaml:"trade_db"`
}

type ExecConfig struct {
	Gateway string             `yaml:"gateway"` // "tcp" or "fix"
	TCP     *exec.TCPConfig    `yaml:"tcp"`
	Fix     *fixgateway.Config `yaml:"fix"`
}

// Load reads config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	sugar := zap.S().With("func", "config.Load", "file_path", filePath)
	sugar.Debug("loading config")

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}
	if err := yaml.Unmarshal(configBytes, cfg); err != nil {
		sugar.Error("failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)
	return cfg, nil
}
