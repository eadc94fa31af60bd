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


package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "chatrelay"

	stageLabelName  = "stage"
	reasonLabelName = "reason"
)

// buckets 以毫秒为单位，从 0.05ms 起每档翻倍，共 14 档，上限约 400ms。
var buckets = prometheus.ExponentialBuckets(0.05, 2, 14)

var (
	registerOnce sync.Once
	registerer   atomic.Pointer[prometheus.Registerer]
)

// Register 把 chat 与 network 两组指标注册到 r，进程内只生效第一次调用。
func Register(r prometheus.Registerer) {
	registerOnce.Do(func() {
		registerChatMetrics(r)
		registerNetworkMetrics(r)
		registerer.Store(&r)
	})
}

// GetRegisterer 返回 Register 使用的 Registerer，尚未注册时为 prometheus.DefaultRegisterer。
func GetRegisterer() prometheus.Registerer {
	if r := registerer.Load(); r != nil {
		return *r
	}
	return prometheus.DefaultRegisterer
}
