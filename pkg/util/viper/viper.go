package viper

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	spfviper "github.com/spf13/viper"
)

// Config 是 spf13/viper 的薄封装，只保留进程配置需要的加载方式：
// 默认值、一个 YAML/JSON 文件，以及可选的环境变量覆盖。
//
// 零值可用。
type Config struct {
	v *spfviper.Viper
}

func New() *Config {
	return &Config{v: spfviper.New()}
}

func (c *Config) viper() *spfviper.Viper {
	if c.v == nil {
		c.v = spfviper.New()
	}
	return c.v
}

func (c *Config) SetDefault(key string, value any) {
	c.viper().SetDefault(key, value)
}

// LoadFile 读取 path，类型按扩展名判断，未知扩展名交给 viper 推断。
func (c *Config) LoadFile(path string) error {
	v := c.viper()
	v.SetConfigFile(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		v.SetConfigType("yaml")
	case ".json":
		v.SetConfigType("json")
	}
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	return nil
}

// BindEnv 让已有默认值或出现在文件中的 key 可由 PREFIX_KEY 形式的环境变量覆盖，
// key 中的 "." 与 "-" 均映射为 "_"，例如 server.send-queue-size 对应
// PREFIX_SERVER_SEND_QUEUE_SIZE。
func (c *Config) BindEnv(prefix string) {
	v := c.viper()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func (c *Config) IsSet(key string) bool {
	return c.viper().IsSet(key)
}

// Unmarshal 把全部配置解码到 dst，dst 为结构体或 map 的指针。
func (c *Config) Unmarshal(dst any) error {
	return c.viper().Unmarshal(dst)
}

func (c *Config) UnmarshalKey(key string, dst any) error {
	return c.viper().UnmarshalKey(key, dst)
}
