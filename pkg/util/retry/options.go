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

import "time"

type config struct {
	attempts     uint
	sleep        time.Duration
	maxSleepTime time.Duration
	isRetryErr   func(err error) bool
}

func newDefaultConfig() *config {
	return &config{
		attempts:     10,
		sleep:        200 * time.Millisecond,
		maxSleepTime: 3 * time.Second,
	}
}

// Option 调整 Do 的重试行为。
type Option func(*config)

// Attempts 为总尝试次数（含第一次），0 表示直到 ctx 结束。
func Attempts(attempts uint) Option {
	return func(c *config) { c.attempts = attempts }
}

// Sleep 为第一次重试前的等待，此后逐次翻倍。上限至少为它的两倍。
func Sleep(sleep time.Duration) Option {
	return func(c *config) {
		c.sleep = sleep
		c.maxSleepTime = max(c.maxSleepTime, 2*sleep)
	}
}

// MaxSleepTime 为单次等待的上限，不会低于 Sleep 的两倍。
func MaxSleepTime(maxSleepTime time.Duration) Option {
	return func(c *config) { c.maxSleepTime = max(maxSleepTime, 2*c.sleep) }
}

// RetryErr 返回 false 的错误不再重试。
func RetryErr(isRetryErr func(err error) bool) Option {
	return func(c *config) { c.isRetryErr = isRetryErr }
}
