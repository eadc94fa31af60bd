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

package merr

import (
	"context"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
)

type ErrSuite struct {
	suite.Suite
}

func (s *ErrSuite) TestCode() {
	err := WrapErrSessionNotFound(1)
	wrapped := errors.Wrap(err, "failed to deliver")
	s.ErrorIs(wrapped, ErrSessionNotFound)
	s.Equal(Code(ErrSessionNotFound), Code(wrapped))
	s.Equal(TimeoutCode, Code(context.DeadlineExceeded))
	s.Equal(CanceledCode, Code(context.Canceled))
	s.Equal(errUnexpected.code, Code(errUnexpected))
	s.Equal(errUnexpected.code, Code(errors.New("plain")))
	s.Equal(int32(0), Code(nil))

	sameCodeErr := define(ErrSessionNotFound.code, "new error")
	s.True(sameCodeErr.Is(ErrSessionNotFound))
	s.False(sameCodeErr.Is(ErrSessionClosed))
}

func (s *ErrSuite) TestRetryable() {
	s.True(IsRetryableErr(ErrSessionQueueFull))
	s.True(IsRetryableErr(WrapErrSessionQueueFull(3, 1024)))
	s.False(IsRetryableErr(WrapErrSessionClosed(3)))
	s.False(IsRetryableErr(errors.New("plain")))
}

func (s *ErrSuite) TestErrorType() {
	s.Equal(InputError, GetErrorType(WrapErrNicknameTaken("alice")))
	s.Equal(InputError, GetErrorType(WrapErrIoLineTooLong(16)))
	s.Equal(SystemError, GetErrorType(ErrIoFailed))
	s.Equal("input_error", InputError.String())
}

func (s *ErrSuite) TestCanceledOrTimeout() {
	s.True(IsCanceledOrTimeout(errors.Wrap(context.Canceled, "stop")))
	s.True(IsCanceledOrTimeout(context.DeadlineExceeded))
	s.False(IsCanceledOrTimeout(ErrIoFailed))
}

func (s *ErrSuite) TestWrap() {
	// Service 相关错误。
	s.ErrorIs(WrapErrServiceNotReady("binding", "listener"), ErrServiceNotReady)
	s.ErrorIs(WrapErrServiceInternal("never throw out"), ErrServiceInternal)

	// Session 相关错误。
	s.ErrorIs(WrapErrSessionNotFound(1, "deregister"), ErrSessionNotFound)
	s.ErrorIs(WrapErrSessionAlreadyRegistered(1), ErrSessionAlreadyRegistered)
	s.ErrorIs(WrapErrSessionClosed(1, "send"), ErrSessionClosed)
	s.ErrorIs(WrapErrSessionQueueFull(1, 8), ErrSessionQueueFull)

	// 昵称相关错误。
	s.ErrorIs(WrapErrNicknameTaken("bob", "register nickname"), ErrNicknameTaken)

	// IO 相关错误。
	s.ErrorIs(WrapErrIoFailed("conn", os.ErrClosed), ErrIoFailed)
	s.Nil(WrapErrIoFailed("conn", nil))
	s.ErrorIs(WrapErrIoLineTooLong(64), ErrIoLineTooLong)

	// 参数相关错误。
	s.ErrorIs(WrapErrParameterInvalidRange(1, 1<<16, 0, "port should be in range"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidMsg("bad %s", "value"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterMissing("server.port", "no port"), ErrParameterMissing)

	// 路由相关错误。
	s.ErrorIs(WrapErrRouteNotFound(2), ErrRouteNotFound)
	s.ErrorIs(WrapErrRouteDuplicated("named"), ErrRouteDuplicated)
}

func (s *ErrSuite) TestWrapMessage() {
	s.Equal("session not found[session=7]", WrapErrSessionNotFound(7).Error())
	s.Equal("IO failed[key=conn]: file already closed", WrapErrIoFailed("conn", os.ErrClosed).Error())
	s.Equal("session send queue is full[session=2][capacity=4]", WrapErrSessionQueueFull(2, 4).Error())
	s.Equal("server.port: invalid parameter[70000 out of range 0 <= value <= 65535]",
		WrapErrParameterInvalidRange(0, 65535, 70000, "server.port").Error())
}

func (s *ErrSuite) TestCombine() {
	var (
		errFirst  = errors.New("first")
		errSecond = errors.New("second")
		errThird  = errors.New("third")
	)

	err := Combine(errFirst, errSecond)
	s.True(errors.Is(err, errFirst))
	s.True(errors.Is(err, errSecond))
	s.False(errors.Is(err, errThird))

	s.Equal("first: second", err.Error())
	s.Equal("first: second: third", Combine(errFirst, errSecond, errThird).Error())
}

func (s *ErrSuite) TestCombineWithNil() {
	err := errors.New("non-nil")

	err = Combine(nil, err)
	s.NotNil(err)
}

func (s *ErrSuite) TestCombineOnlyNil() {
	err := Combine(nil, nil)
	s.Nil(err)
}

func (s *ErrSuite) TestCombineCode() {
	err := Combine(WrapErrSessionNotFound(10), WrapErrSessionClosed(1))
	s.Equal(Code(ErrSessionClosed), Code(err))
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrSuite))
}
