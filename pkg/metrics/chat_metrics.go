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
	"github.com/prometheus/client_golang/prometheus"
)

const chatSubsystem = "chat"

var (
	SessionsOnline = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: chatSubsystem,
		Name:      "sessions_online",
		Help:      "当前在线（已注册）的会话数量",
	})

	NamedSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: chatSubsystem,
		Name:      "named_sessions",
		Help:      "已设置昵称的会话数量",
	})

	BroadcastsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: chatSubsystem,
		Name:      "broadcasts_total",
		Help:      "广播消息总数（含加入、离开与聊天消息）",
	})

	BroadcastLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: chatSubsystem,
		Name:      "broadcast_latency",
		Help:      "一次广播从记录历史到所有会话入队完成的耗时，单位毫秒",
		Buckets:   buckets,
	})

	MentionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: chatSubsystem,
		Name:      "mentions_total",
		Help:      "成功投递提醒信号的次数",
	})

	NicknameRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: chatSubsystem,
		Name:      "nickname_rejections_total",
		Help:      "因昵称已被占用而被拒绝的次数",
	})

	SweeperEvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: chatSubsystem,
		Name:      "sweeper_evictions_total",
		Help:      "心跳清理移除的失活会话数量",
	})

	HandlerFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: chatSubsystem,
		Name:      "handler_failures_total",
		Help:      "消息处理失败（返回错误或 panic）的次数",
	}, []string{reasonLabelName})

	HistoryLength = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: chatSubsystem,
		Name:      "history_length",
		Help:      "当前聊天历史中保存的消息条数",
	})
)

func registerChatMetrics(r prometheus.Registerer) {
	r.MustRegister(SessionsOnline)
	r.MustRegister(NamedSessions)
	r.MustRegister(BroadcastsTotal)
	r.MustRegister(BroadcastLatency)
	r.MustRegister(MentionsTotal)
	r.MustRegister(NicknameRejectionsTotal)
	r.MustRegister(SweeperEvictionsTotal)
	r.MustRegister(HandlerFailuresTotal)
	r.MustRegister(HistoryLength)
}
