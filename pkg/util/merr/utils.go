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
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code 返回 err 的错误码，nil 返回 0。
func Code(err error) int32 {
	if err == nil {
		return 0
	}
	if e, ok := leaf(err); ok {
		return e.code
	}
	switch {
	case errors.Is(err, context.Canceled):
		return CanceledCode
	case errors.Is(err, context.DeadlineExceeded):
		return TimeoutCode
	default:
		return errUnexpected.code
	}
}

// IsRetryableErr 判断错误链末端的叶子错误是否可重试。
func IsRetryableErr(err error) bool {
	e, ok := leaf(err)
	return ok && e.retriable
}

func IsCanceledOrTimeout(err error) bool {
	return errors.IsAny(err, context.Canceled, context.DeadlineExceeded)
}

func GetErrorType(err error) ErrorType {
	if e, ok := leaf(err); ok {
		return e.errType
	}
	return SystemError
}

func leaf(err error) (chatError, bool) {
	e, ok := errors.Cause(err).(chatError)
	return e, ok
}

func WrapErrServiceNotReady(state string, msg ...string) error {
	return annotate(ErrServiceNotReady, state, nil, msg)
}

func WrapErrServiceInternal(reason string, msg ...string) error {
	return annotate(ErrServiceInternal, reason, nil, msg)
}

func WrapErrSessionNotFound(id uint64, msg ...string) error {
	return annotate(ErrSessionNotFound, "", fields{"session", id}, msg)
}

func WrapErrSessionAlreadyRegistered(id uint64, msg ...string) error {
	return annotate(ErrSessionAlreadyRegistered, "", fields{"session", id}, msg)
}

func WrapErrSessionClosed(id uint64, msg ...string) error {
	return annotate(ErrSessionClosed, "", fields{"session", id}, msg)
}

func WrapErrSessionQueueFull(id uint64, capacity int, msg ...string) error {
	return annotate(ErrSessionQueueFull, "", fields{"session", id, "capacity", capacity}, msg)
}

func WrapErrNicknameTaken(nickname string, msg ...string) error {
	return annotate(ErrNicknameTaken, "", fields{"nickname", nickname}, msg)
}

// WrapErrIoFailed 以 err 的文本作为描述，err 为 nil 时返回 nil。
func WrapErrIoFailed(key string, err error) error {
	if err == nil {
		return nil
	}
	return annotate(ErrIoFailed, err.Error(), fields{"key", key}, nil)
}

func WrapErrIoLineTooLong(limit int, msg ...string) error {
	return annotate(ErrIoLineTooLong, "", fields{"limit", limit}, msg)
}

func WrapErrParameterInvalidRange[T any](lower, upper, actual T, msg ...string) error {
	err := ErrParameterInvalid
	err.msg += fmt.Sprintf("[%v out of range %v <= value <= %v]", actual, lower, upper)
	return withMessages(err, msg)
}

func WrapErrParameterInvalidMsg(format string, args ...any) error {
	return errors.Wrapf(ErrParameterInvalid, format, args...)
}

func WrapErrParameterMissing[T any](param T, msg ...string) error {
	return annotate(ErrParameterMissing, "", fields{"missing_param", param}, msg)
}

func WrapErrRouteNotFound[K any](key K, msg ...string) error {
	return annotate(ErrRouteNotFound, "", fields{"route", key}, msg)
}

func WrapErrRouteDuplicated[K any](key K, msg ...string) error {
	return annotate(ErrRouteDuplicated, "", fields{"route", key}, msg)
}

// fields 为交替排列的键值对。
type fields []any

// annotate 把键值对与描述拼进叶子错误的文本，形如 "msg[k=v]: desc"，
// 再用 msg 逐层包装。返回值仍与原叶子错误 errors.Is 相等。
func annotate(base chatError, desc string, kv fields, msg []string) error {
	var sb strings.Builder
	sb.WriteString(base.msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&sb, "[%v=%v]", kv[i], kv[i+1])
	}
	if desc != "" {
		sb.WriteString(": ")
		sb.WriteString(desc)
	}
	base.msg = sb.String()
	return withMessages(base, msg)
}

func withMessages(err error, msg []string) error {
	if len(msg) == 0 {
		return err
	}
	return errors.Wrap(err, strings.Join(msg, "->"))
}
