// Copyright (C) 2019-2020 Zilliz. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License
// is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express
// or implied. See the License for the specific language governing permissions and limitations under the License.

package retry

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lk2023060901/chat-relay-go/pkg/log"
	"github.com/lk2023060901/chat-relay-go/pkg/util/merr"
)

// Do 反复执行 fn 直到成功、次数用尽或 ctx 结束，两次尝试之间按指数退避休眠。
//
// 返回值为 fn 最后一次返回的错误；ctx 在休眠期间结束时同样返回该错误而不是 ctx.Err()。
// 被 Unrecoverable 包装的错误以及 RetryErr 判定为不可重试的错误会立即返回。
func Do(ctx context.Context, fn func() error, opts ...Option) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c := newDefaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	logger := log.Ctx(ctx).With(
		zap.Uint("attempts", c.attempts),
		zap.String("caller", caller(2)))

	var (
		lastErr error
		tries   uint
	)
	op := func() error {
		tries++
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		switch {
		case !IsRecoverable(err):
			logger.Warn("retry func failed, not recoverable", zap.Uint("retried", tries-1), zap.Error(err))
			return backoff.Permanent(err)
		case c.isRetryErr != nil && !c.isRetryErr(err):
			logger.Warn("retry func failed, not retryable", zap.Uint("retried", tries-1), zap.Error(err))
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		if (tries-1)%4 == 0 {
			logger.Warn("retry func failed",
				zap.Uint("retried", tries-1),
				zap.Duration("backoff", wait),
				zap.Error(err))
		}
	}

	err := backoff.RetryNotify(op, c.backOff(ctx), notify)
	if err != nil && merr.IsCanceledOrTimeout(err) && lastErr != nil && !errors.Is(lastErr, err) {
		logger.Warn("retry func failed, ctx done", zap.Uint("retried", tries))
		return lastErr
	}
	return err
}

// backOff 构造不带抖动、倍率为 2 的退避序列，attempts 为 0 时只受 ctx 约束。
func (c *config) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.sleep
	exp.MaxInterval = c.maxSleepTime
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	exp.Reset()

	var b backoff.BackOff = exp
	if c.attempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(c.attempts-1))
	}
	return backoff.WithContext(b, ctx)
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	return file + ":" + strconv.Itoa(line)
}

var errUnrecoverable = errors.New("unrecoverable error")

// Unrecoverable 标记 err，使 Do 不再重试。
func Unrecoverable(err error) error {
	return merr.Combine(err, errUnrecoverable)
}

func IsRecoverable(err error) bool {
	return !errors.Is(err, errUnrecoverable)
}
