package application

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"

	"github.com/lk2023060901/chat-relay-go/internal/chat"
	"github.com/lk2023060901/chat-relay-go/internal/network/framer"
	"github.com/lk2023060901/chat-relay-go/pkg/log"
	"github.com/lk2023060901/chat-relay-go/pkg/util/merr"
	zviper "github.com/lk2023060901/chat-relay-go/pkg/util/viper"
)

const (
	// EnvPrefix 为所有环境变量覆盖项的前缀。
	EnvPrefix = "CHATRELAY"

	// DefaultConfigPath 为未显式指定时尝试加载的配置文件，文件不存在时忽略。
	DefaultConfigPath = "./config.yaml"

	// DefaultPort 为默认监听端口。
	DefaultPort = 1001
)

// ServerConfig 描述聊天服务本身的配置。
type ServerConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	SendQueueSize int           `mapstructure:"send-queue-size"`
	MaxLineSize   int           `mapstructure:"max-line-size"`
	HistorySize   int           `mapstructure:"history-size"`
	SweepInterval time.Duration `mapstructure:"sweep-interval"`
	BindAttempts  uint          `mapstructure:"bind-attempts"`
	ProbeWorkers  int           `mapstructure:"probe-workers"`
}

// MetricsConfig 描述 Prometheus 指标端点，Address 为空表示不启用。
type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// Config 为进程的完整配置。
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     log.Config    `mapstructure:"log"`
}

// envOverrides 为可通过环境变量覆盖的配置项，零值表示未设置。
type envOverrides struct {
	ConfigFilePath string `envconfig:"CONFIG_FILE_PATH"`
	Host           string `envconfig:"HOST"`
	Port           int    `envconfig:"PORT"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
	LogFormat      string `envconfig:"LOG_FORMAT"`
	MetricsAddress string `envconfig:"METRICS_ADDRESS"`
}

func (e envOverrides) apply(cfg *Config) {
	if e.Host != "" {
		cfg.Server.Host = e.Host
	}
	if e.Port != 0 {
		cfg.Server.Port = e.Port
	}
	if e.LogLevel != "" {
		cfg.Log.Level = e.LogLevel
	}
	if e.LogFormat != "" {
		cfg.Log.Format = e.LogFormat
	}
	if e.MetricsAddress != "" {
		cfg.Metrics.Address = e.MetricsAddress
	}
}

func setDefaults(v *zviper.Config) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.send-queue-size", chat.DefaultSendQueueSize)
	v.SetDefault("server.max-line-size", framer.DefaultMaxLineSize)
	v.SetDefault("server.history-size", chat.DefaultHistorySize)
	v.SetDefault("server.sweep-interval", chat.DefaultSweepInterval)
	v.SetDefault("server.bind-attempts", 1)
	v.SetDefault("server.probe-workers", chat.DefaultProbeWorkers)
	v.SetDefault("metrics.address", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.stdout", true)
}

// LoadConfig 按以下优先级解析配置文件路径并加载配置：
//  1. 默认：./config.yaml（不存在时只使用默认值）
//  2. 环境变量：CHATRELAY_CONFIG_FILE_PATH
//  3. 命令行：--config <path> 或 --config=<path>
//
// 每个配置项都可以用完整路径的环境变量覆盖，例如 CHATRELAY_SERVER_HISTORY_SIZE；
// 此外 CHATRELAY_HOST、CHATRELAY_PORT 等简写在最后应用，优先级最高。
func LoadConfig(args []string) (*Config, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, errors.Wrap(err, "process environment overrides")
	}

	path, explicit, err := resolveConfigPath(args, env.ConfigFilePath)
	if err != nil {
		return nil, err
	}

	v := zviper.New()
	setDefaults(v)
	v.BindEnv(EnvPrefix)
	if explicit || fileExists(path) {
		if err := v.LoadFile(path); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %q", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	env.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置取值是否合法。
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return merr.WrapErrParameterInvalidRange(0, 65535, c.Server.Port, "server.port")
	}
	if c.Server.SendQueueSize <= 0 {
		return merr.WrapErrParameterInvalidMsg("server.send-queue-size must be positive, got %d", c.Server.SendQueueSize)
	}
	if c.Server.MaxLineSize <= 0 {
		return merr.WrapErrParameterInvalidMsg("server.max-line-size must be positive, got %d", c.Server.MaxLineSize)
	}
	if c.Server.HistorySize <= 0 {
		return merr.WrapErrParameterInvalidMsg("server.history-size must be positive, got %d", c.Server.HistorySize)
	}
	if c.Server.ProbeWorkers <= 0 {
		return merr.WrapErrParameterInvalidMsg("server.probe-workers must be positive, got %d", c.Server.ProbeWorkers)
	}
	if c.Server.SweepInterval <= 0 {
		return merr.WrapErrParameterInvalidMsg("server.sweep-interval must be positive, got %s", c.Server.SweepInterval)
	}
	return nil
}

// resolveConfigPath 返回配置文件路径，以及该路径是否被显式指定。
func resolveConfigPath(args []string, envPath string) (string, bool, error) {
	path, explicit := DefaultConfigPath, false
	if envPath != "" {
		path, explicit = envPath, true
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" {
			if i+1 >= len(args) {
				return "", false, merr.WrapErrParameterMissing("--config", "missing value after --config")
			}
			path, explicit = args[i+1], true
			i++
			continue
		}
		if val, ok := strings.CutPrefix(arg, "--config="); ok && val != "" {
			path, explicit = val, true
		}
	}
	return path, explicit, nil
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
