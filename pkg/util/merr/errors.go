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
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// 非 chatError 的取消与超时错误对应的错误码。
const (
	CanceledCode int32 = 10000
	TimeoutCode  int32 = 10001
)

// ErrorType 区分错误来源：服务自身或客户端输入。
type ErrorType int32

const (
	SystemError ErrorType = iota
	InputError
)

func (t ErrorType) String() string {
	switch t {
	case InputError:
		return "input_error"
	default:
		return "system_error"
	}
}

// 叶子错误。新增前先确认下列错误是否已经能表达；
// 命名规则为 Err + 领域前缀 + 错误名，同一领域的错误码相邻。
var (
	ErrServiceNotReady = define(1, "service not ready", retriable)
	ErrServiceInternal = define(5, "service internal error")

	ErrSessionNotFound          = define(100, "session not found")
	ErrSessionAlreadyRegistered = define(101, "session already registered")
	ErrSessionClosed            = define(102, "session closed")
	ErrSessionQueueFull         = define(103, "session send queue is full", retriable)

	ErrNicknameTaken = define(200, "nickname already taken", inputError)

	ErrIoFailed      = define(1001, "IO failed")
	ErrIoLineTooLong = define(1003, "line too long", inputError)

	ErrParameterInvalid = define(1100, "invalid parameter")
	ErrParameterMissing = define(1101, "missing parameter")

	ErrRouteNotFound   = define(1500, "route not found")
	ErrRouteDuplicated = define(1501, "route already registered")

	// 仅用于给未知错误分配错误码，不导出。
	errUnexpected = define((1<<16)-1, "unexpected error")
)

// chatError 是所有叶子错误的底层类型，按错误码判等。
type chatError struct {
	msg       string
	code      int32
	retriable bool
	errType   ErrorType
}

type trait func(*chatError)

func retriable(e *chatError)  { e.retriable = true }
func inputError(e *chatError) { e.errType = InputError }

func define(code int32, msg string, traits ...trait) chatError {
	e := chatError{msg: msg, code: code}
	for _, t := range traits {
		t(&e)
	}
	return e
}

func (e chatError) Error() string {
	return e.msg
}

// Is 使包装过字段的副本与原始叶子错误互相匹配。
func (e chatError) Is(target error) bool {
	other, ok := errors.Cause(target).(chatError)
	return ok && other.code == e.code
}

// joinedError 由 Combine 构造，Cause 为最后一个错误。
type joinedError struct {
	errs []error
}

func (e joinedError) Error() string {
	return strings.Join(lo.Map(e.errs, func(err error, _ int) string {
		return err.Error()
	}), ": ")
}

func (e joinedError) Unwrap() error {
	switch len(e.errs) {
	case 0, 1:
		return nil
	case 2:
		return e.errs[1]
	default:
		return joinedError{errs: e.errs[1:]}
	}
}

func (e joinedError) Is(target error) bool {
	return lo.ContainsBy(e.errs, func(err error) bool {
		return errors.Is(err, target)
	})
}

// Combine 合并多个错误并忽略其中的 nil，全部为 nil 时返回 nil。
func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return joinedError{errs: errs}
}
