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
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxLogKey struct{}

// Debug 使用全局 Logger 输出 Debug 日志。
func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}

// Info 使用全局 Logger 输出 Info 日志。
func Info(msg string, fields ...zap.Field) {
	L().Info(msg, fields...)
}

// Warn 使用全局 Logger 输出 Warn 日志。
func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

// Error 使用全局 Logger 输出 Error 日志。
func Error(msg string, fields ...zap.Field) {
	L().Error(msg, fields...)
}

// Fatal 输出日志后退出进程。
func Fatal(msg string, fields ...zap.Field) {
	L().Fatal(msg, fields...)
}

// With 基于全局 Logger 派生一个带字段的 MLogger。
func With(fields ...zap.Field) *MLogger {
	// 全局 Logger 带有一层包装函数的 caller skip，直接使用时需要抵消。
	return &MLogger{Logger: L().WithOptions(zap.AddCallerSkip(-1)).With(fields...)}
}

// SetLevel 调整全局日志级别。
func SetLevel(l zapcore.Level) {
	Level().SetLevel(l)
}

// GetLevel 返回全局日志级别。
func GetLevel() zapcore.Level {
	return Level().Level()
}

// WithModule 在 ctx 的 Logger 上追加模块名。
func WithModule(ctx context.Context, module string) context.Context {
	return withFields(ctx, FieldModule(module))
}

// withFields 返回携带新 Logger 的子 ctx，新 Logger 在 ctx 已有 Logger 的基础上追加 fields。
func withFields(ctx context.Context, fields ...zap.Field) context.Context {
	return context.WithValue(ctx, ctxLogKey{}, Ctx(ctx).With(fields...))
}

// Ctx 取出 ctx 携带的 Logger，没有时返回当前级别的全局 Logger。
func Ctx(ctx context.Context) *MLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxLogKey{}).(*MLogger); ok {
			return l
		}
	}
	return &MLogger{Logger: ctxL()}
}
