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

const networkSubsystem = "network"

var (
	AcceptErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: networkSubsystem,
		Name:      "accept_errors_total",
		Help:      "监听器 Accept 失败的次数",
	})

	ConnectionsAcceptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: networkSubsystem,
		Name:      "connections_accepted_total",
		Help:      "监听器接受的连接总数",
	})

	SessionErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: networkSubsystem,
		Name:      "session_errors_total",
		Help:      "会话在各阶段（recv/send）发生错误的次数",
	}, []string{stageLabelName})

	SendQueueDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: networkSubsystem,
		Name:      "send_queue_dropped_total",
		Help:      "因发送队列已满而被丢弃的消息条数",
	})

	LinesReceivedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: networkSubsystem,
		Name:      "lines_received_total",
		Help:      "从客户端读取的文本行总数",
	})
)

func registerNetworkMetrics(r prometheus.Registerer) {
	r.MustRegister(AcceptErrorsTotal)
	r.MustRegister(ConnectionsAcceptedTotal)
	r.MustRegister(SessionErrorsTotal)
	r.MustRegister(SendQueueDroppedTotal)
	r.MustRegister(LinesReceivedTotal)
}
