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

package conc

import (
	"time"

	ants "github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/lk2023060901/chat-relay-go/pkg/log"
)

type poolOption struct {
	preAlloc       bool
	nonBlocking    bool
	expiryDuration time.Duration
	// concealPanic 为 true 时任务 panic 只记录日志，不再向上抛出。
	concealPanic bool
	// preHandler 在每个任务执行前调用。
	preHandler func()
}

func defaultPoolOption() *poolOption {
	return &poolOption{}
}

func (opt *poolOption) antsOptions() []ants.Option {
	concealPanic := opt.concealPanic
	result := []ants.Option{
		ants.WithPreAlloc(opt.preAlloc),
		ants.WithNonblocking(opt.nonBlocking),
		// ants 会 recover 任务中的 panic，但不会把它交还给提交方，
		// 这里记录后按 concealPanic 决定是否继续抛出。
		ants.WithPanicHandler(func(v any) {
			log.Error("conc pool task panicked", zap.Any("panic", v))
			if !concealPanic {
				panic(v)
			}
		}),
	}
	if opt.expiryDuration > 0 {
		result = append(result, ants.WithExpiryDuration(opt.expiryDuration))
	}
	return result
}

// PoolOption 用于配置 Pool。
type PoolOption func(opt *poolOption)

// WithPreAlloc 预先分配全部 worker。
func WithPreAlloc(v bool) PoolOption {
	return func(opt *poolOption) { opt.preAlloc = v }
}

// WithNonBlocking 为 true 时池满立即返回错误，否则 Submit 阻塞等待空闲 worker。
func WithNonBlocking(v bool) PoolOption {
	return func(opt *poolOption) { opt.nonBlocking = v }
}

// WithExpiryDuration 设置空闲 worker 的回收间隔。
func WithExpiryDuration(d time.Duration) PoolOption {
	return func(opt *poolOption) { opt.expiryDuration = d }
}

// WithConcealPanic 控制任务 panic 后是否吞掉异常。
func WithConcealPanic(v bool) PoolOption {
	return func(opt *poolOption) { opt.concealPanic = v }
}

// WithPreHandler 设置任务执行前的钩子。
func WithPreHandler(fn func()) PoolOption {
	return func(opt *poolOption) { opt.preHandler = fn }
}
