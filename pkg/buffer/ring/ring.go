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

// Package ring 实现了一个定长的泛型环形缓冲区，写满后覆盖最旧的元素。
package ring

// Ring 是容量固定的 FIFO 环形缓冲区。
// Ring 不是并发安全的，由调用方负责加锁。
type Ring[T any] struct {
	buf     []T  // 底层存储，长度即容量
	r       int  // 最旧元素的位置
	w       int  // 下一次写入位置
	isEmpty bool // r == w 时用于区分“空/满”状态
}

// New 创建一个容量为 capacity 的 Ring，capacity 必须大于 0。
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	return &Ring[T]{
		buf:     make([]T, capacity),
		isEmpty: true,
	}
}

// Push 追加一个元素。缓冲区已满时先淘汰最旧的元素，并通过返回值告知调用方。
func (rb *Ring[T]) Push(v T) (evicted T, ok bool) {
	if rb.IsFull() {
		evicted, ok = rb.buf[rb.r], true
		rb.r = rb.next(rb.r)
	}
	rb.buf[rb.w] = v
	rb.w = rb.next(rb.w)
	rb.isEmpty = false
	return evicted, ok
}

// Pop 移除并返回最旧的元素。
func (rb *Ring[T]) Pop() (v T, ok bool) {
	if rb.isEmpty {
		return v, false
	}
	var zero T
	v = rb.buf[rb.r]
	rb.buf[rb.r] = zero
	rb.r = rb.next(rb.r)
	rb.isEmpty = rb.r == rb.w
	return v, true
}

// Range 按从旧到新的顺序遍历元素，回调返回 false 时提前终止。
func (rb *Ring[T]) Range(f func(v T) bool) {
	n := rb.Len()
	for i := 0; i < n; i++ {
		if !f(rb.buf[(rb.r+i)%len(rb.buf)]) {
			return
		}
	}
}

// Snapshot 按从旧到新的顺序返回所有元素的副本。
func (rb *Ring[T]) Snapshot() []T {
	out := make([]T, 0, rb.Len())
	rb.Range(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

// Len 返回当前元素个数。
func (rb *Ring[T]) Len() int {
	if rb.isEmpty {
		return 0
	}
	if rb.w > rb.r {
		return rb.w - rb.r
	}
	return len(rb.buf) - rb.r + rb.w
}

// Cap 返回缓冲区容量。
func (rb *Ring[T]) Cap() int {
	return len(rb.buf)
}

// IsFull 判断缓冲区是否已满。
func (rb *Ring[T]) IsFull() bool {
	return rb.r == rb.w && !rb.isEmpty
}

// IsEmpty 判断缓冲区是否为空。
func (rb *Ring[T]) IsEmpty() bool {
	return rb.isEmpty
}

// Reset 清空缓冲区。
func (rb *Ring[T]) Reset() {
	clear(rb.buf)
	rb.r, rb.w, rb.isEmpty = 0, 0, true
}

func (rb *Ring[T]) next(i int) int {
	i++
	if i == len(rb.buf) {
		return 0
	}
	return i
}
