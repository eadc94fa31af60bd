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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	r := prometheus.NewRegistry()
	Register(r)
	Register(r)
	assert.Same(t, r, GetRegisterer())

	before := testutil.ToFloat64(AcceptErrorsTotal)
	AcceptErrorsTotal.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(AcceptErrorsTotal))

	SessionErrorsTotal.WithLabelValues("recv").Inc()
	HandlerFailuresTotal.WithLabelValues("panic").Inc()

	families, err := r.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "chatrelay_network_accept_errors_total")
	assert.Contains(t, names, "chatrelay_chat_sessions_online")
	assert.Contains(t, names, "chatrelay_network_session_errors_total")
}
