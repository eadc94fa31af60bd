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
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type bufferSyncer struct {
	bytes.Buffer
}

func (b *bufferSyncer) Sync() error { return nil }

func TestInitLoggerWithWriteSyncer(t *testing.T) {
	buf := &bufferSyncer{}
	lg, props, err := InitLoggerWithWriteSyncer(&Config{Level: "warn", Format: "json"}, buf)
	require.NoError(t, err)
	require.NotNil(t, props)

	lg.Info("dropped")
	lg.Warn("kept", FieldSessionID(7), FieldNickname("alice"))
	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"message":"kept"`)
	assert.Contains(t, out, `"sessionID":7`)
	assert.Contains(t, out, `"nickname":"alice"`)
}

func TestInitLoggerBadLevel(t *testing.T) {
	_, _, err := InitLoggerWithWriteSyncer(&Config{Level: "loud"}, &bufferSyncer{})
	assert.Error(t, err)
}

func TestInitLoggerFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Level: "info", File: FileLogConfig{RootPath: dir, Filename: "relay.log"}}
	lg, props, err := InitLogger(cfg)
	require.NoError(t, err)
	lg.Info("to file")
	require.NoError(t, lg.Sync())
	assert.Equal(t, zapcore.InfoLevel, props.Level.Level())
	assert.FileExists(t, filepath.Join(dir, "relay.log"))
}

func TestFileWriterRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := newFileWriter(&FileLogConfig{Filename: dir})
	assert.Error(t, err)
}

func TestCtxLogger(t *testing.T) {
	lg, props, err := InitTestLogger(t, &Config{Level: "debug"})
	require.NoError(t, err)
	oldL, oldP := L(), _globalP.Load()
	ReplaceGlobals(lg, props)
	defer ReplaceGlobals(oldL, oldP)

	assert.NotNil(t, Ctx(nil))
	assert.NotNil(t, Ctx(context.Background()))

	ctx := WithModule(context.Background(), "chat")
	ctx = withFields(ctx, FieldSessionID(3))
	Ctx(ctx).Info("with fields")
	assert.NotSame(t, Ctx(context.Background()), Ctx(ctx))

	SetLevel(zapcore.ErrorLevel)
	assert.Equal(t, zapcore.ErrorLevel, GetLevel())
	SetLevel(zapcore.DebugLevel)
}

func TestRatedLogger(t *testing.T) {
	l := With(zap.String("k", "v")).WithRateGroup("test.rated", 1, 1)
	assert.True(t, l.RatedWarn(1, "first"))
	assert.False(t, l.RatedWarn(1, "second"))
}

func TestBinder(t *testing.T) {
	var b Binder
	assert.NotNil(t, b.Logger())
	l := With(FieldComponent("acceptor"))
	b.SetLogger(l)
	assert.Same(t, l, b.Logger())
}
