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
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/uber/jaeger-client-go/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"gopkg.in/natefinch/lumberjack.v2"
)

const envRatePrefix = "CHATRELAY_LOG_RATE_"

var (
	_globalL atomic.Pointer[zap.Logger]
	_globalS atomic.Pointer[zap.SugaredLogger]
	_globalP atomic.Pointer[ZapProperties]

	// _globalR 只在 init 中写入一次。
	_globalR RateLimiter = nopRateLimiter{}

	// 每个级别一个预先裁剪的 Logger，Ctx 按当前全局级别取用。
	_levelLoggers      sync.Map
	_namedRateLimiters sync.Map
)

// RateLimiter 是 Rated* 系列方法依赖的最小限流接口。
type RateLimiter interface {
	CheckCredit(cost float64) bool
}

type nopRateLimiter struct{}

func (nopRateLimiter) CheckCredit(float64) bool { return true }

func init() {
	ReplaceGlobals(newStdLogger())
	_globalR = rateLimiterFromEnv()
}

// InitLogger 依据 cfg 构造 Logger，输出到文件（可选）与标准输出。
//
// 底层 core 始终以 debug 级别构造，实际级别由返回的 ZapProperties.Level 控制，
// 因此运行期可以通过 SetLevel 调整。
func InitLogger(cfg *Config, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	cfg.initialize()

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	output, err := buildOutput(cfg)
	if err != nil {
		return nil, nil, err
	}

	full := *cfg
	full.Level = zapcore.DebugLevel.String()
	lg, props, err := InitLoggerWithWriteSyncer(&full, output, opts...)
	if err != nil {
		return nil, nil, err
	}
	replaceLeveledLoggers(lg)
	props.Level.SetLevel(level)
	return lg.WithOptions(zap.AddCallerSkip(1)), props, nil
}

// InitTestLogger 构造写入 t.Log 的 Logger，zap 内部错误会使测试失败。
func InitTestLogger(t zaptest.TestingT, cfg *Config, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	writer := newTestingWriter(t)
	opts = append([]zap.Option{zap.ErrorOutput(writer.failing())}, opts...)
	return InitLoggerWithWriteSyncer(cfg, writer, opts...)
}

// InitLoggerWithWriteSyncer 构造写入 output 的 Logger。
func InitLoggerWithWriteSyncer(cfg *Config, output zapcore.WriteSyncer, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	cfg.initialize()
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, errors.Wrapf(err, "invalid log level %q", cfg.Level)
	}

	core := zapcore.NewCore(newZapEncoder(cfg), output, level)
	lg := zap.New(core, append(cfg.buildOptions(output), opts...)...)
	return lg, &ZapProperties{Core: core, Syncer: output, Level: level}, nil
}

// parseLevel 解析级别名，trace 视同 debug。
func parseLevel(name string) (zapcore.Level, error) {
	if strings.EqualFold(name, "trace") {
		return zapcore.DebugLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return level, errors.Wrapf(err, "invalid log level %q", name)
	}
	return level, nil
}

func buildOutput(cfg *Config) (zapcore.WriteSyncer, error) {
	var sinks []zapcore.WriteSyncer
	if cfg.File.Filename != "" {
		fw, err := newFileWriter(&cfg.File)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, zapcore.AddSync(fw))
	}
	if cfg.Stdout {
		sinks = append(sinks, zapcore.Lock(os.Stdout))
	}
	return zap.CombineWriteSyncers(sinks...), nil
}

// newFileWriter 返回按大小滚动的文件输出。
func newFileWriter(cfg *FileLogConfig) (*lumberjack.Logger, error) {
	path := cfg.Filename
	if cfg.RootPath != "" {
		path = filepath.Join(cfg.RootPath, cfg.Filename)
	}
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return nil, errors.Newf("log file %q is a directory", path)
	}

	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = defaultLogMaxSize
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxDays,
		LocalTime:  true,
	}, nil
}

func newStdLogger() (*zap.Logger, *ZapProperties) {
	lg, props, _ := InitLogger(&Config{Level: "debug", Stdout: true}, zap.OnFatal(zapcore.WriteThenPanic))
	return lg, props
}

// L 返回全局 Logger，可并发使用。
func L() *zap.Logger {
	return _globalL.Load()
}

// S 返回全局 SugaredLogger。
func S() *zap.SugaredLogger {
	return _globalS.Load()
}

// R 返回全局限流器，未通过 CHATRELAY_LOG_RATE_ENABLE 开启时从不丢弃日志。
func R() RateLimiter {
	return _globalR
}

func ctxL() *zap.Logger {
	if l, ok := _levelLoggers.Load(GetLevel()); ok {
		return l.(*zap.Logger)
	}
	return L()
}

// ReplaceGlobals 替换全局 Logger 及其属性，可并发调用。
func ReplaceGlobals(logger *zap.Logger, props *ZapProperties) {
	_globalL.Store(logger)
	_globalS.Store(logger.Sugar())
	_globalP.Store(props)
}

func replaceLeveledLoggers(base *zap.Logger) {
	for level := zapcore.DebugLevel; level <= zapcore.FatalLevel; level++ {
		_levelLoggers.Store(level, base.WithOptions(zap.IncreaseLevel(level)))
	}
}

// Sync 刷新全局 Logger 以及各级别 Logger 中缓冲的日志。
func Sync() error {
	err := L().Sync()
	_levelLoggers.Range(func(_, v any) bool {
		if serr := v.(*zap.Logger).Sync(); serr != nil && err == nil {
			err = serr
		}
		return true
	})
	return err
}

// Level 返回全局可调的日志级别。
func Level() zap.AtomicLevel {
	return _globalP.Load().Level
}

// rateLimiterFromEnv 读取 CHATRELAY_LOG_RATE_ENABLE、
// CHATRELAY_LOG_RATE_CREDIT_PER_SECOND 与 CHATRELAY_LOG_RATE_MAX_BALANCE。
func rateLimiterFromEnv() RateLimiter {
	enabled, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(envRatePrefix + "ENABLE")))
	if err != nil || !enabled {
		return nopRateLimiter{}
	}
	credit := envFloat(envRatePrefix+"CREDIT_PER_SECOND", 1)
	balance := envFloat(envRatePrefix+"MAX_BALANCE", 60)
	return utils.NewRateLimiter(credit, balance)
}

func envFloat(key string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}
