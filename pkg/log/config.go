// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package log

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultLogMaxSize = 300 // MB

	formatText = "text"
	formatJSON = "json"

	timeLayout = "2006/01/02 15:04:05.000 -07:00"
)

// FileLogConfig 为滚动文件输出，Filename 为空时不写文件。
type FileLogConfig struct {
	RootPath   string `mapstructure:"rootpath" json:"rootpath"`
	Filename   string `mapstructure:"filename" json:"filename"`
	MaxSize    int    `mapstructure:"max-size" json:"max-size"`       // 单文件上限，MB
	MaxDays    int    `mapstructure:"max-days" json:"max-days"`       // 0 表示不按天清理
	MaxBackups int    `mapstructure:"max-backups" json:"max-backups"` // 0 表示全部保留
}

// Config 是 log 节的配置。
type Config struct {
	// Level 取 debug、info、warn、error，trace 按 debug 处理。
	Level string `mapstructure:"level" json:"level"`
	// Format 取 text 或 json。
	Format           string        `mapstructure:"format" json:"format"`
	DisableTimestamp bool          `mapstructure:"disable-timestamp" json:"disable-timestamp"`
	Stdout           bool          `mapstructure:"stdout" json:"stdout"`
	File             FileLogConfig `mapstructure:"file" json:"file"`

	// Development 打开后 DPanic 会 panic，堆栈从 Warn 开始记录。
	Development       bool `mapstructure:"development" json:"development"`
	DisableCaller     bool `mapstructure:"disable-caller" json:"disable-caller"`
	DisableStacktrace bool `mapstructure:"disable-stacktrace" json:"disable-stacktrace"`

	// Sampling 非空时按秒采样，语义同 zapcore.NewSamplerWithOptions。
	Sampling *zap.SamplingConfig `mapstructure:"sampling" json:"sampling"`
}

// ZapProperties 保存构造 Logger 时的 core、输出与可调级别。
type ZapProperties struct {
	Core   zapcore.Core
	Syncer zapcore.WriteSyncer
	Level  zap.AtomicLevel
}

func newZapEncoder(cfg *Config) zapcore.Encoder {
	enc := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "name",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(timeLayout),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if cfg.DisableTimestamp {
		enc.TimeKey = ""
	}
	if strings.EqualFold(cfg.Format, formatJSON) {
		return zapcore.NewJSONEncoder(enc)
	}
	return zapcore.NewConsoleEncoder(enc)
}

// buildOptions 把 Config 中与输出格式无关的开关转换为 zap.Option。
func (cfg *Config) buildOptions(errSink zapcore.WriteSyncer) []zap.Option {
	opts := []zap.Option{zap.ErrorOutput(errSink)}
	if !cfg.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}

	stackFrom := zap.ErrorLevel
	if cfg.Development {
		opts = append(opts, zap.Development())
		stackFrom = zap.WarnLevel
	}
	if !cfg.DisableStacktrace {
		opts = append(opts, zap.AddStacktrace(stackFrom))
	}

	if s := cfg.Sampling; s != nil {
		opts = append(opts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewSamplerWithOptions(core, time.Second, s.Initial, s.Thereafter, zapcore.SamplerHook(s.Hook))
		}))
	}
	return opts
}

func (cfg *Config) initialize() {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = formatText
	}
	if cfg.File.MaxSize <= 0 {
		cfg.File.MaxSize = defaultLogMaxSize
	}
}
